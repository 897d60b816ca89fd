// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package conda

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/datawire/dlib/derror"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/datawire/shippinglabel/pkg/python/pep503"
	"github.com/datawire/shippinglabel/pkg/python/pep508"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

// CompileRequirements flattens the repository's requirements.txt, plus any
// extra requirements, into the list that a Conda build needs.  Conda has no
// notion of extras or environment markers, so both are dropped; URL
// requirements are skipped; requirements that name the same distribution are
// merged.
func CompileRequirements(ctx context.Context, repoPath string, extras []string) (_ []requirements.Requirement, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("conda.CompileRequirements: %w", err)
		}
	}()

	result, err := requirements.Read(ctx, filepath.Join(repoPath, "requirements.txt"))
	if err != nil {
		return nil, err
	}
	reqs := result.Requirements
	for _, extra := range extras {
		req, err := pep508.ParseRequirement(extra)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, requirements.Requirement(*req))
	}

	flattened := make([]requirements.Requirement, 0, len(reqs))
	for _, req := range reqs {
		if req.URL != "" {
			continue
		}
		req.Extras = nil
		req.Marker = nil
		flattened = append(flattened, req)
	}
	combined := requirements.Combine(flattened...)
	sort.Slice(combined, func(i, j int) bool {
		return combined[i].Cmp(combined[j]) < 0
	})

	return combined, nil
}

// condaAliases maps PyPI names to the differently spelled Conda package that
// serves the same distribution.
//
// See https://github.com/conda-forge/ruamel.yaml-feedstock/issues/7
//
//nolint:gochecknoglobals // Would be 'const'.
var condaAliases = map[string]string{
	"ruamel-yaml": "ruamel.yaml",
}

// ValidateRequirements checks that each requirement can be satisfied from one
// of the named channels, and returns the requirements rewritten to use the
// channels' spelling of each name.  Failures are collected; the returned
// error covers every requirement that no channel serves.
func (c Client) ValidateRequirements(ctx context.Context, reqs []requirements.Requirement, channels []string) (_ []requirements.Requirement, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("conda.ValidateRequirements: %w", err)
		}
	}()
	c.fillDefaults()

	// 1. Union the channel listings.
	var available []string
	seen := make(map[string]struct{})
	for _, channel := range channels {
		listing, err := c.ChannelListing(ctx, channel)
		if err != nil {
			return nil, err
		}
		for _, name := range listing {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			available = append(available, name)
		}
	}

	// 2. Resolve each requirement against the union.
	var errs derror.MultiError
	validated := make([]requirements.Requirement, 0, len(reqs))
	for _, req := range reqs {
		if alias, ok := condaAliases[req.Name]; ok {
			req.Name = alias
			validated = append(validated, req)
			continue
		}
		found := false
		for _, match := range closeMatches(req.Name, available, 3, 0.6) {
			if pep503.Normalize(match) == pep503.Normalize(req.Name) {
				req.Name = match
				found = true
				break
			}
		}
		if found {
			validated = append(validated, req)
			continue
		}
		errs = append(errs, fmt.Errorf("cannot satisfy the requirement %q from any of the channels: %s",
			req.Name, strings.Join(channels, ", ")))
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return validated, nil
}

// closeMatches returns the members of possibilities that score at least
// cutoff against word, best match first, at most n of them.  It follows
// Python's difflib.get_close_matches.
func closeMatches(word string, possibilities []string, n int, cutoff float64) []string {
	type scored struct {
		ratio float64
		name  string
	}
	matcher := difflib.NewMatcher(nil, strings.Split(word, ""))
	var result []scored
	for _, possibility := range possibilities {
		matcher.SetSeq1(strings.Split(possibility, ""))
		if matcher.RealQuickRatio() >= cutoff &&
			matcher.QuickRatio() >= cutoff &&
			matcher.Ratio() >= cutoff {
			result = append(result, scored{matcher.Ratio(), possibility})
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ratio > result[j].ratio
	})
	if len(result) > n {
		result = result[:n]
	}
	matches := make([]string, 0, len(result))
	for _, match := range result {
		matches = append(matches, match.name)
	}
	return matches
}
