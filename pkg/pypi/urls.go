// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pypi

import (
	"context"
	"fmt"
	"strings"

	"github.com/datawire/shippinglabel/pkg/python/bdist"
	"github.com/datawire/shippinglabel/pkg/python/pep425"
	"github.com/datawire/shippinglabel/pkg/python/pep440"
)

// releaseFiles returns the file list of one release, trying the version
// string as given and then its canonical spelling.
func (c Client) releaseFiles(ctx context.Context, name, version string) ([]ReleaseFile, error) {
	project, err := c.Metadata(ctx, name)
	if err != nil {
		return nil, err
	}
	files, ok := project.Releases[version]
	if !ok {
		if parsed, err := pep440.ParseVersion(version); err == nil {
			files, ok = project.Releases[parsed.String()]
		}
	}
	if !ok {
		return nil, fmt.Errorf("no release found for %s %s", name, version)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("release %s %s has no files", name, version)
	}
	return files, nil
}

// preferSdist picks the file a source-wanting caller would: a .tar.gz if
// there is one, else a .zip, else whatever comes first.
func preferSdist(files []ReleaseFile) ReleaseFile {
	for _, file := range files {
		if strings.HasSuffix(file.Filename, ".tar.gz") {
			return file
		}
	}
	for _, file := range files {
		if strings.HasSuffix(file.Filename, ".zip") {
			return file
		}
	}
	return files[0]
}

// SdistURL returns the URL of the release's source distribution.  Without
// strict, a release with no sdist yields a .zip file or, failing that, the
// release's first file (which may well be a wheel).
func (c Client) SdistURL(ctx context.Context, name, version string, strict bool) (string, error) {
	files, err := c.releaseFiles(ctx, name, version)
	if err != nil {
		return "", fmt.Errorf("pypi.SdistURL: %w", err)
	}
	if strict {
		for _, file := range files {
			if strings.HasSuffix(file.Filename, ".tar.gz") {
				return file.URL, nil
			}
		}
		return "", fmt.Errorf("pypi.SdistURL: no sdist found for %s %s", name, version)
	}
	return preferSdist(files).URL, nil
}

// A TagURLMap maps each compatibility tag claimed by a release's wheels to
// the URL of the wheel claiming it.
type TagURLMap map[pep425.Tag]string

// WheelTagMapping parses the filename of every wheel in the release and
// maps its (decompressed) compatibility tags to its URL.  Files that are
// not wheels come back alongside; feed the map to an Installer to pick the
// right wheel, or use WheelURL, which does.
func (c Client) WheelTagMapping(ctx context.Context, name, version string) (TagURLMap, []ReleaseFile, error) {
	files, err := c.releaseFiles(ctx, name, version)
	if err != nil {
		return nil, nil, fmt.Errorf("pypi.WheelTagMapping: %w", err)
	}
	tagURLs := make(TagURLMap)
	var nonWheels []ReleaseFile
	for _, file := range files {
		fileInfo, err := bdist.ParseFilename(file.Filename)
		if err != nil {
			nonWheels = append(nonWheels, file)
			continue
		}
		for _, tag := range fileInfo.Tags {
			tagURLs[tag] = file.URL
		}
	}
	return tagURLs, nonWheels, nil
}

// WheelURL returns the URL of the release's wheel whose compatibility tag
// the installer prefers most.
func (c Client) WheelURL(ctx context.Context, name, version string, prefs pep425.Installer) (string, error) {
	tagURLs, _, err := c.WheelTagMapping(ctx, name, version)
	if err != nil {
		return "", err
	}
	var bestURL string
	var bestPref int
	for tag, wheelURL := range tagURLs {
		if !prefs.Supports(tag) {
			continue
		}
		pref := prefs.Preference(tag)
		// Ties go to the lexically smallest URL, to keep the answer
		// stable across map iteration orders.
		if bestURL == "" || pref < bestPref || (pref == bestPref && wheelURL < bestURL) {
			bestURL = wheelURL
			bestPref = pref
		}
	}
	if bestURL == "" {
		return "", fmt.Errorf("pypi.WheelURL: no wheel found for %s %s", name, version)
	}
	return bestURL, nil
}
