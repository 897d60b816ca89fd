// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep425 implements PEP 425 -- Compatibility Tags for Built
// Distributions.
//
// https://www.python.org/dev/peps/pep-0425/
package pep425

import (
	"fmt"
	"strings"
)

// A Tag names an environment that a built distribution is compatible with,
// such as "cp39-cp39-manylinux1_x86_64" or "py3-none-any".  Each component
// may be a compressed tag set ("py2.py3").
type Tag struct {
	Python   string
	ABI      string
	Platform string
}

// ParseTag parses a "{python}-{abi}-{platform}" string.
func ParseTag(str string) (*Tag, error) {
	parts := strings.Split(str, "-")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return nil, fmt.Errorf("invalid compatibility tag: %q", str)
	}
	return &Tag{Python: parts[0], ABI: parts[1], Platform: parts[2]}, nil
}

func (t Tag) String() string {
	return t.Python + "-" + t.ABI + "-" + t.Platform
}

// Decompress expands any compressed tag sets, so "py2.py3-none-any" becomes
// ["py2-none-any", "py3-none-any"].
func (t Tag) Decompress() []Tag {
	var ret []Tag
	for _, python := range strings.Split(t.Python, ".") {
		for _, abi := range strings.Split(t.ABI, ".") {
			for _, platform := range strings.Split(t.Platform, ".") {
				ret = append(ret, Tag{python, abi, platform})
			}
		}
	}
	return ret
}

// Intersect returns the simple tags that tag-lists a and b have in common,
// considering compressed tag sets.  The result keeps b's ordering.
func Intersect(a, b []Tag) []Tag {
	inA := make(map[Tag]struct{})
	for _, compressed := range a {
		for _, tag := range compressed.Decompress() {
			inA[tag] = struct{}{}
		}
	}
	var ret []Tag
	seen := make(map[Tag]struct{})
	for _, compressed := range b {
		for _, tag := range compressed.Decompress() {
			if _, ok := inA[tag]; !ok {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			ret = append(ret, tag)
		}
	}
	return ret
}

// An Installer is the list of tags that an installer supports, ordered from
// most preferred to least preferred.
//
// To get this list for a live Python install, use the command:
//
//	python -c $'import packaging.tags\nfor tag in packaging.tags.sys_tags(): print(tag)'
type Installer []Tag

// Supports reports whether the installer accepts the tag.
func (inst Installer) Supports(t Tag) bool {
	return len(Intersect([]Tag(inst), []Tag{t})) > 0
}

// Preference returns a numeric representation of how much the installer
// prefers the tag; lower values are more preferred.  The result is in the
// range [1, len(inst)+1], so the zero value is safe to use as "unset".
func (inst Installer) Preference(t Tag) int {
	for i, supported := range inst {
		if len(Intersect([]Tag{supported}, []Tag{t})) > 0 {
			return i + 1
		}
	}
	return len(inst) + 1
}
