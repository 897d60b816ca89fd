// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pypi talks to the Python Package Index's JSON API.
//
// https://warehouse.pypa.io/api-reference/json.html
//
// For the HTML index that pip itself scrapes, see pkg/python/pep503; the
// JSON API is richer (digests, yank flags, project info) but PyPI-specific.
package pypi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sort"

	"github.com/datawire/shippinglabel/pkg/python/pep440"
)

// DefaultBaseURL is the JSON API root that a zero Client talks to.
const DefaultBaseURL = "https://pypi.org/pypi/"

// A Client accesses a PyPI-compatible JSON API.  The zero value talks to
// PyPI.
type Client struct {
	// BaseURL is the root of the JSON API; DefaultBaseURL if empty.
	BaseURL string
	// HTTPClient makes the requests; http.DefaultClient if nil.
	HTTPClient *http.Client
	// UserAgent is sent with each request.
	UserAgent string
}

func (c *Client) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.UserAgent == "" {
		c.UserAgent = "github.com/datawire/shippinglabel/pkg/pypi"
	}
}

// An HTTPError is a response with a status other than 200 OK.
type HTTPError struct {
	Status     string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %s", e.Status)
}

// ErrNoProject means the index has no project by that name.
var ErrNoProject = errors.New("no such project")

func (c Client) get(ctx context.Context, requestURL string) (_ []byte, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("GET %q => %w", requestURL, err)
		}
	}()
	c.fillDefaults()

	// 1. Build the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	// 2. Do the networking
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return nil, err
	}
	if err := resp.Body.Close(); err != nil {
		return nil, err
	}

	// 3. Validate the result
	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Status: resp.Status, StatusCode: resp.StatusCode}
	}

	return content, nil
}

// A Project is a project's JSON API document: the info block, the file list
// of every release, and the files of the newest release.
type Project struct {
	Info     Info                     `json:"info"`
	Releases map[string][]ReleaseFile `json:"releases"`
	URLs     []ReleaseFile            `json:"urls"`
}

// An Info is the "info" block of a Project.
type Info struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Summary        string   `json:"summary"`
	HomePage       string   `json:"home_page"`
	License        string   `json:"license"`
	RequiresPython string   `json:"requires_python"`
	RequiresDist   []string `json:"requires_dist"`
	Yanked         bool     `json:"yanked"`
	YankedReason   string   `json:"yanked_reason"`
}

// A ReleaseFile is one downloadable file of a release.
type ReleaseFile struct {
	Filename       string            `json:"filename"`
	URL            string            `json:"url"`
	Digests        map[string]string `json:"digests"`
	Size           int64             `json:"size"`
	RequiresPython string            `json:"requires_python"`
	Yanked         bool              `json:"yanked"`
	YankedReason   string            `json:"yanked_reason"`
}

func (c Client) getProjectJSON(ctx context.Context, elem ...string) ([]byte, error) {
	c.fillDefaults()
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(append([]string{u.Path}, elem...)...)
	content, err := c.get(ctx, u.String())
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w %q", ErrNoProject, elem[0])
		}
		return nil, err
	}
	return content, nil
}

func (c Client) getProject(ctx context.Context, elem ...string) (*Project, error) {
	content, err := c.getProjectJSON(ctx, elem...)
	if err != nil {
		return nil, err
	}
	var project Project
	if err := json.Unmarshal(content, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Metadata fetches the project's JSON document, which covers every release.
func (c Client) Metadata(ctx context.Context, name string) (_ *Project, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pypi.Metadata: %w", err)
		}
	}()
	return c.getProject(ctx, name, "json")
}

// MetadataJSON fetches the project's JSON document without interpreting it.
// A non-empty version fetches that release's document instead.
func (c Client) MetadataJSON(ctx context.Context, name, version string) (_ []byte, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pypi.MetadataJSON: %w", err)
		}
	}()
	if version == "" {
		return c.getProjectJSON(ctx, name, "json")
	}
	return c.getProjectJSON(ctx, name, version, "json")
}

// VersionMetadata fetches the JSON document of one release of the project;
// the info block describes that release rather than the newest one.
func (c Client) VersionMetadata(ctx context.Context, name, version string) (_ *Project, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pypi.VersionMetadata: %w", err)
		}
	}()
	return c.getProject(ctx, name, version, "json")
}

// Latest returns the version of the project's newest release.
func (c Client) Latest(ctx context.Context, name string) (string, error) {
	project, err := c.Metadata(ctx, name)
	if err != nil {
		return "", err
	}
	return project.Info.Version, nil
}

// Releases returns the project's release versions, oldest first.
func (c Client) Releases(ctx context.Context, name string) ([]string, error) {
	project, err := c.Metadata(ctx, name)
	if err != nil {
		return nil, err
	}
	return sortReleases(project.Releases), nil
}

// sortReleases returns the release keys in version order.  Keys that do not
// parse as versions sort last, among themselves by string.
func sortReleases(releases map[string][]ReleaseFile) []string {
	keys := make([]string, 0, len(releases))
	parsed := make(map[string]*pep440.Version, len(releases))
	for key := range releases {
		keys = append(keys, key)
		if version, err := pep440.ParseVersion(key); err == nil {
			parsed[key] = version
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		vi, vj := parsed[keys[i]], parsed[keys[j]]
		switch {
		case vi != nil && vj != nil:
			if cmp := vi.Cmp(*vj); cmp != 0 {
				return cmp < 0
			}
			return keys[i] < keys[j]
		case vi != nil:
			return true
		case vj != nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// A FileURL is one downloadable file: its URL and its SHA-256 digest.
type FileURL struct {
	URL    string
	Digest string
}

// A Release pairs a release version with its files.
type Release struct {
	Version string
	Files   []FileURL
}

// ReleasesWithDigests returns the project's releases in version order, with
// each file's download URL and SHA-256 digest.
func (c Client) ReleasesWithDigests(ctx context.Context, name string) ([]Release, error) {
	project, err := c.Metadata(ctx, name)
	if err != nil {
		return nil, err
	}
	ret := make([]Release, 0, len(project.Releases))
	for _, version := range sortReleases(project.Releases) {
		release := Release{Version: version}
		for _, file := range project.Releases[version] {
			release.Files = append(release.Files, FileURL{
				URL:    file.URL,
				Digest: file.Digests["sha256"],
			})
		}
		ret = append(ret, release)
	}
	return ret, nil
}
