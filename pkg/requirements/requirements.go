// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package requirements reads, merges, and writes requirements.txt files.
package requirements

import (
	"strings"

	"github.com/datawire/shippinglabel/pkg/python/pep508"
)

// A Requirement is a pep508.Requirement with the comparison behaviors that
// requirements-file maintenance needs.
type Requirement pep508.Requirement

// String renders the requirement canonically; see pep508.Requirement.String.
func (r Requirement) String() string {
	return (*pep508.Requirement)(&r).String()
}

// A NormalizeFunc canonicalizes a project name; pep503.Normalize is the
// usual choice.
type NormalizeFunc func(string) string

// denormalizeRuamel undoes name normalization for ruamel.yaml; Poetry
// mishandles the normalized spellings.
func denormalizeRuamel(name string) string {
	switch name {
	case "ruamel-yaml", "ruamel_yaml":
		return "ruamel.yaml"
	}
	return name
}

// Cmp orders requirements for writing to a requirements file: by name, then
// by specifier string descending, then by marker string descending; the
// descending tie-breaks put "foo>=1" ahead of a plain "foo".
func (r Requirement) Cmp(other Requirement) int {
	if d := strings.Compare(r.Name, other.Name); d != 0 {
		return d
	}
	if d := strings.Compare(other.Specifier.String(), r.Specifier.String()); d != 0 {
		return d
	}
	return strings.Compare(markerString(other.Marker), markerString(r.Marker))
}

// EquivalentTo reports whether two requirements are interchangeable: fields
// compare equal, except that an empty field on either side matches
// anything, and markers compare by their rendered strings.
func (r Requirement) EquivalentTo(other Requirement) bool {
	if r.Name != "" && other.Name != "" && r.Name != other.Name {
		return false
	}
	if r.URL != "" && other.URL != "" && r.URL != other.URL {
		return false
	}
	if len(r.Extras) > 0 && len(other.Extras) > 0 && !extrasEqual(r.Extras, other.Extras) {
		return false
	}
	if len(r.Specifier) > 0 && len(other.Specifier) > 0 &&
		r.Specifier.String() != other.Specifier.String() {
		return false
	}
	if r.Marker != nil && other.Marker != nil &&
		r.Marker.String() != other.Marker.String() {
		return false
	}
	return true
}

func markerString(marker *pep508.Marker) string {
	if marker == nil {
		return ""
	}
	return marker.String()
}

// extrasEqual compares extras lists as sets.
func extrasEqual(a, b []string) bool {
	aSet := make(map[string]struct{}, len(a))
	for _, extra := range a {
		aSet[extra] = struct{}{}
	}
	bSet := make(map[string]struct{}, len(b))
	for _, extra := range b {
		bSet[extra] = struct{}{}
	}
	if len(aSet) != len(bSet) {
		return false
	}
	for extra := range aSet {
		if _, ok := bSet[extra]; !ok {
			return false
		}
	}
	return true
}
