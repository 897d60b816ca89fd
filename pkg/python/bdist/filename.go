// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package bdist deals with the file format of Python built distributions
// ("wheels").
//
// https://packaging.python.org/specifications/binary-distribution-format/
package bdist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/datawire/shippinglabel/pkg/python/pep425"
	"github.com/datawire/shippinglabel/pkg/python/pep440"
)

// A BuildTag is the optional tie-breaker between wheels that are otherwise
// built from the same sources.  It starts with a number; any remainder is
// compared as a string.
type BuildTag struct {
	N      int
	Suffix string
}

func (t BuildTag) String() string {
	return strconv.Itoa(t.N) + t.Suffix
}

// Cmp compares two build tags.  A nil build tag sorts before all non-nil
// build tags.
func (t *BuildTag) Cmp(other *BuildTag) int {
	switch {
	case t == nil && other == nil:
		return 0
	case t == nil:
		return -1
	case other == nil:
		return 1
	case t.N != other.N:
		return t.N - other.N
	default:
		return strings.Compare(t.Suffix, other.Suffix)
	}
}

// FileNameData is the parsed form of a wheel filename,
//
//	{distribution}-{version}(-{build tag})?-{python tag}-{abi tag}-{platform tag}.whl
type FileNameData struct {
	Distribution string
	Version      pep440.Version
	Build        *BuildTag

	// Tags is the decompressed list of environments that the wheel
	// claims compatibility with.
	Tags []pep425.Tag
}

//nolint:gochecknoglobals // Would be 'const'.
var reFilename = regexp.MustCompile(`^` +
	`(?P<distribution>[^-]+)` +
	`-(?P<version>[^-]+)` +
	`(?:-(?P<build_n>[0-9]+)(?P<build_s>[^-0-9][^-]*)?)?` +
	`-(?P<python>[^-]+)` +
	`-(?P<abi>[^-]+)` +
	`-(?P<platform>[^-]+)` +
	`\.whl$`)

// ParseFilename parses a wheel filename.
func ParseFilename(filename string) (*FileNameData, error) {
	match := reFilename.FindStringSubmatch(filename)
	if match == nil {
		return nil, fmt.Errorf("invalid wheel filename: %q", filename)
	}

	var ret FileNameData

	ret.Distribution = match[reFilename.SubexpIndex("distribution")]

	version, err := pep440.ParseVersion(match[reFilename.SubexpIndex("version")])
	if err != nil {
		return nil, fmt.Errorf("invalid wheel filename: %q: %w", filename, err)
	}
	ret.Version = *version

	if buildN := match[reFilename.SubexpIndex("build_n")]; buildN != "" {
		n, err := strconv.Atoi(buildN)
		if err != nil {
			return nil, fmt.Errorf("invalid wheel filename: %q: %w", filename, err)
		}
		ret.Build = &BuildTag{
			N:      n,
			Suffix: match[reFilename.SubexpIndex("build_s")],
		}
	}

	ret.Tags = pep425.Tag{
		Python:   match[reFilename.SubexpIndex("python")],
		ABI:      match[reFilename.SubexpIndex("abi")],
		Platform: match[reFilename.SubexpIndex("platform")],
	}.Decompress()

	return &ret, nil
}

// String assembles the filename back from its parts.  The compatibility tags
// are re-compressed component-wise, which inverts ParseFilename for any
// filename produced by standard wheel tooling.
func (d FileNameData) String() string {
	var str strings.Builder
	str.WriteString(d.Distribution)
	str.WriteByte('-')
	str.WriteString(d.Version.String())
	if d.Build != nil {
		str.WriteByte('-')
		str.WriteString(d.Build.String())
	}

	var pythons, abis, platforms []string
	for _, tag := range d.Tags {
		pythons = appendUniq(pythons, tag.Python)
		abis = appendUniq(abis, tag.ABI)
		platforms = appendUniq(platforms, tag.Platform)
	}
	str.WriteByte('-')
	str.WriteString(strings.Join(pythons, "."))
	str.WriteByte('-')
	str.WriteString(strings.Join(abis, "."))
	str.WriteByte('-')
	str.WriteString(strings.Join(platforms, "."))

	str.WriteString(".whl")
	return str.String()
}

func appendUniq(list []string, val string) []string {
	for _, existing := range list {
		if existing == val {
			return list
		}
	}
	return append(list, val)
}
