// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package pypi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/datawire/dlib/dlog"
	"github.com/google/renameio/v2"

	"github.com/datawire/shippinglabel/pkg/python/pep440"
	"github.com/datawire/shippinglabel/pkg/python/pep592"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

// Download fetches each requirement's distribution into dir, under its
// upstream filename.  For each requirement the newest release matching its
// specifier is chosen (a fully-yanked release only as a last resort) and
// the sdist is preferred over wheels.  Downloads are verified against the
// index's SHA-256 digest and land atomically.
//
// Requirements that point at a URL directly are skipped; whatever serves
// that URL is not this index.
func (c Client) Download(ctx context.Context, dir string, reqs ...requirements.Requirement) error {
	for _, req := range reqs {
		if req.URL != "" {
			dlog.Infof(ctx, "skipping %s: direct URL requirement", req.Name)
			continue
		}
		if err := c.download(ctx, dir, req); err != nil {
			return fmt.Errorf("pypi.Download: %s: %w", req.Name, err)
		}
	}
	return nil
}

func (c Client) download(ctx context.Context, dir string, req requirements.Requirement) error {
	project, err := c.Metadata(ctx, req.Name)
	if err != nil {
		return err
	}

	// 1. Pick the release
	var choices []pep440.Version
	keyFor := make(map[string]string, len(project.Releases))
	fileYanks := make(map[string][]bool, len(project.Releases))
	for verStr, files := range project.Releases {
		version, err := pep440.ParseVersion(verStr)
		if err != nil || len(files) == 0 {
			continue
		}
		choices = append(choices, *version)
		keyFor[version.String()] = verStr
		yanks := make([]bool, 0, len(files))
		for _, file := range files {
			yanks = append(yanks, file.Yanked)
		}
		fileYanks[verStr] = yanks
	}
	version := req.Specifier.Select(choices, pep592.ExcludeYankedFiles(fileYanks))
	if version == nil {
		return fmt.Errorf("no release matches %q", req.Specifier.String())
	}

	// 2. Pick the file
	file := preferSdist(project.Releases[keyFor[version.String()]])

	// 3. Fetch and verify
	dlog.Infof(ctx, "downloading %s", file.URL)
	content, err := c.get(ctx, file.URL)
	if err != nil {
		return err
	}
	if expected := file.Digests["sha256"]; expected != "" {
		sum := sha256.Sum256(content)
		if actual := hex.EncodeToString(sum[:]); actual != expected {
			return fmt.Errorf("sha256 checksum mismatch for %s: expected=%s actual=%s",
				file.Filename, expected, actual)
		}
	}

	// 4. Land it
	return renameio.WriteFile(filepath.Join(dir, filepath.Base(file.Filename)), content, 0o644)
}
