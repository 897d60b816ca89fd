// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep592 implements PEP 592 -- Adding "Yank" Support to the Simple API.
//
// https://www.python.org/dev/peps/pep-0592/
package pep592

import (
	"github.com/datawire/shippinglabel/pkg/python/bdist"
	"github.com/datawire/shippinglabel/pkg/python/pep440"
	"github.com/datawire/shippinglabel/pkg/python/pep503"
	"github.com/datawire/shippinglabel/pkg/sdist"
)

// A Yanked records that a file has been yanked from the index.
type Yanked struct {
	// Reason is the optional human-readable reason for the yank, from
	// the value of the link's "data-yanked" attribute.
	Reason *string
}

// FileYanked returns the file's yank status, or nil if the file has not been
// yanked.
func FileYanked(l pep503.FileLink) *Yanked {
	val, yanked := l.DataAttrs["data-yanked"]
	if !yanked {
		return nil
	}
	ret := &Yanked{}
	if val != "" {
		ret.Reason = &val
	}
	return ret
}

// IsYanked reports whether the file has been yanked.
func IsYanked(l pep503.FileLink) bool {
	return FileYanked(l) != nil
}

func fileVersion(l pep503.FileLink) (*pep440.Version, error) {
	if fileInfo, err := bdist.ParseFilename(l.Text); err == nil {
		version := fileInfo.Version
		return &version, nil
	}
	fileInfo, err := sdist.ParseFilename(l.Text)
	if err != nil {
		return nil, err
	}
	return pep440.ParseVersion(fileInfo.Version)
}

type excludeYanked struct {
	yankedVersions map[string]struct{}
}

// ExcludeYanked returns a pep440.ExclusionBehavior that excludes each
// version for which every file has been yanked.  A version with a mix of
// yanked and un-yanked files is still allowed; installers are expected to
// simply skip the yanked files.  Files whose names cannot be parsed are
// disregarded.
func ExcludeYanked(links []pep503.FileLink) pep440.ExclusionBehavior {
	fileCount := make(map[string]int)
	yankCount := make(map[string]int)
	for _, link := range links {
		version, err := fileVersion(link)
		if err != nil {
			continue
		}
		key := version.String()
		fileCount[key]++
		if IsYanked(link) {
			yankCount[key]++
		}
	}

	ret := excludeYanked{
		yankedVersions: make(map[string]struct{}),
	}
	for key, total := range fileCount {
		if yankCount[key] == total {
			ret.yankedVersions[key] = struct{}{}
		}
	}
	return ret
}

// ExcludeYankedFiles is ExcludeYanked for indexes that report yank status
// out-of-band instead of with data-yanked attrs, as the JSON API does.
// fileYanks maps each version to the yank flag of each of its files;
// versions that do not parse are disregarded.
func ExcludeYankedFiles(fileYanks map[string][]bool) pep440.ExclusionBehavior {
	ret := excludeYanked{
		yankedVersions: make(map[string]struct{}),
	}
	for verStr, yanks := range fileYanks {
		version, err := pep440.ParseVersion(verStr)
		if err != nil || len(yanks) == 0 {
			continue
		}
		allYanked := true
		for _, yanked := range yanks {
			if !yanked {
				allYanked = false
				break
			}
		}
		if allYanked {
			ret.yankedVersions[version.String()] = struct{}{}
		}
	}
	return ret
}

func (e excludeYanked) Allow(v pep440.Version) bool {
	_, yanked := e.yankedVersions[v.String()]
	return !yanked
}
