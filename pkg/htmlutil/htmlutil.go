// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package htmlutil has small helpers for walking golang.org/x/net/html parse
// trees.
package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
)

// VisitHTML walks the tree rooted at node, calling before on each node on
// the way down and after on the way back up.  Either callback may be nil; a
// non-nil error stops the walk.
func VisitHTML(node *html.Node, before, after func(*html.Node) error) error {
	if before != nil {
		if err := before(node); err != nil {
			return err
		}
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if err := VisitHTML(child, before, after); err != nil {
			return err
		}
	}
	if after != nil {
		if err := after(node); err != nil {
			return err
		}
	}
	return nil
}

// GetAttr returns the value of the named attribute of node, and whether the
// attribute is present at all.
func GetAttr(node *html.Node, namespace, name string) (val string, ok bool) {
	if node == nil {
		return "", false
	}
	for _, attr := range node.Attr {
		if attr.Namespace == namespace && attr.Key == name {
			return attr.Val, true
		}
	}
	return "", false
}

// Text returns the concatenated text content beneath node.
func Text(node *html.Node) string {
	var str strings.Builder
	_ = VisitHTML(node, nil, func(child *html.Node) error {
		if child.Type == html.TextNode {
			str.WriteString(child.Data)
		}
		return nil
	})
	return str.String()
}
