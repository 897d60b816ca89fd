// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package classifiers validates and suggests trove classifiers, the
// controlled vocabulary that PyPI projects describe themselves with.
//
// https://pypi.org/classifiers/
package classifiers

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
)

// classifiersData is the known classifier set, one per line, as published at
// https://pypi.org/classifiers/.
//
//go:embed classifiers.txt
var classifiersData string

//nolint:gochecknoglobals // Populated from classifiers.txt.
var knownClassifiers = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(classifiersData, "\n") {
		if line != "" {
			set[line] = struct{}{}
		}
	}
	return set
}()

// deprecatedClassifiers maps each retired classifier to its replacements, if
// it has any.
//
//nolint:gochecknoglobals // Would be 'const'.
var deprecatedClassifiers = map[string][]string{
	"Natural Language :: Ukranian":                             {"Natural Language :: Ukrainian"},
	"Topic :: Communications :: Chat :: AOL Instant Messenger": nil,
	"Topic :: Communications :: Chat :: ICQ":                   nil,
	"Topic :: Communications :: Chat :: Unix Talk":             nil,
}

// A Problem is a finding about a single classifier: either it is deprecated,
// or it is not a classifier at all.
type Problem struct {
	Classifier string
	// Deprecated is true for a recognized but retired classifier, and
	// false for an unknown one.
	Deprecated bool
	// Replacements lists the classifiers that supersede a deprecated one.
	Replacements []string
}

// Message renders the problem for display.
func (p Problem) Message() string {
	if !p.Deprecated {
		return fmt.Sprintf("unknown classifier %q", p.Classifier)
	}
	if len(p.Replacements) == 0 {
		return fmt.Sprintf("classifier %q is deprecated", p.Classifier)
	}
	quoted := make([]string, 0, len(p.Replacements))
	for _, replacement := range p.Replacements {
		quoted = append(quoted, fmt.Sprintf("%q", replacement))
	}
	return fmt.Sprintf("classifier %q is deprecated; use %s instead",
		p.Classifier, strings.Join(quoted, ", "))
}

// Validate checks a list of classifiers.  Deprecated classifiers are
// reported but tolerated; ok is false only when an unknown classifier is
// present.
func Validate(classifiers []string) (ok bool, problems []Problem) {
	ok = true
	for _, classifier := range classifiers {
		if replacements, deprecated := deprecatedClassifiers[classifier]; deprecated {
			problems = append(problems, Problem{
				Classifier:   classifier,
				Deprecated:   true,
				Replacements: replacements,
			})
		} else if _, known := knownClassifiers[classifier]; !known {
			problems = append(problems, Problem{Classifier: classifier})
			ok = false
		}
	}
	return ok, problems
}

// Sorted returns the classifiers in the conventional order, which is plain
// alphabetical.  The input is not modified.
func Sorted(classifiers []string) []string {
	sorted := make([]string, len(classifiers))
	copy(sorted, classifiers)
	sort.Strings(sorted)
	return sorted
}
