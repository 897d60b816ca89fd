// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package conda deals with Conda channels: listing their packages, checking
// requirements against them, and writing meta.yaml recipes.
package conda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/datawire/dlib/dlog"
	"github.com/google/renameio/v2"
)

// DefaultBaseURL is the channel host that a zero Client talks to.
const DefaultBaseURL = "https://conda.anaconda.org"

// listingTTL is how long a cached channel listing stays fresh.
const listingTTL = 48 * time.Hour

// A Client accesses Conda channels.  The zero value talks to anaconda.org
// and caches under the user cache directory.
type Client struct {
	// BaseURL is the channel host; DefaultBaseURL if empty.
	BaseURL string
	// HTTPClient makes the requests; http.DefaultClient if nil.
	HTTPClient *http.Client
	// UserAgent is sent with each request.
	UserAgent string
	// CacheDir holds the cached channel listings;
	// <os.UserCacheDir>/shippinglabel/conda if empty.
	CacheDir string
}

func (c *Client) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.UserAgent == "" {
		c.UserAgent = "github.com/datawire/shippinglabel/pkg/conda"
	}
	if c.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		c.CacheDir = filepath.Join(base, "shippinglabel", "conda")
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

type repodataFile struct {
	Packages map[string]struct {
		Name string `json:"name"`
	} `json:"packages"`
}

func (c Client) repodata(ctx context.Context, channel, arch string) (*repodataFile, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, channel, arch, "repodata.json")
	content, err := c.get(ctx, u.String())
	if err != nil {
		return nil, err
	}
	var repodata repodataFile
	if err := json.Unmarshal(content, &repodata); err != nil {
		return nil, err
	}
	return &repodata, nil
}

// A cacheEntry is the on-disk form of a cached channel listing.
type cacheEntry struct {
	Expires  int64    `json:"expires"`
	Packages []string `json:"packages"`
}

func (c Client) cacheFile(channel string) string {
	return filepath.Join(c.CacheDir, channel+".json")
}

func readCache(file string) ([]string, bool) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, false
	}
	var entry cacheEntry
	if err := json.Unmarshal(content, &entry); err != nil {
		return nil, false
	}
	if !time.Unix(entry.Expires, 0).After(time.Now()) {
		return nil, false
	}
	return entry.Packages, true
}

// ChannelListing returns the sorted names of the packages that the channel
// serves for "noarch" and "linux-64".  Listings are cached for 48 hours;
// see ClearCache.
func (c Client) ChannelListing(ctx context.Context, channel string) (_ []string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("conda.ChannelListing: %w", err)
		}
	}()
	c.fillDefaults()

	// 1. The cache might still be fresh.
	if packages, ok := readCache(c.cacheFile(channel)); ok {
		return packages, nil
	}

	// 2. It is not; ask the channel.
	dlog.Infof(ctx, "fetching the package listing of channel %q", channel)
	names := make(map[string]struct{})
	for _, arch := range []string{"noarch", "linux-64"} {
		repodata, err := c.repodata(ctx, channel, arch)
		if err != nil {
			return nil, err
		}
		for _, pkg := range repodata.Packages {
			names[pkg.Name] = struct{}{}
		}
	}
	packages := make([]string, 0, len(names))
	for name := range names {
		packages = append(packages, name)
	}
	sort.Strings(packages)

	// 3. Remember the answer.
	entry, err := json.MarshalIndent(cacheEntry{
		Expires:  time.Now().Add(listingTTL).Unix(),
		Packages: packages,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(c.CacheDir, 0o755); err != nil {
		return nil, err
	}
	if err := renameio.WriteFile(c.cacheFile(channel), entry, 0o644); err != nil {
		return nil, err
	}

	return packages, nil
}

// ClearCache removes the named channels' cached listings, or every cached
// listing when no names are given.
func (c Client) ClearCache(channels ...string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("conda.ClearCache: %w", err)
		}
	}()
	c.fillDefaults()

	var files []string
	if len(channels) == 0 {
		files, err = filepath.Glob(filepath.Join(c.CacheDir, "*.json"))
		if err != nil {
			return err
		}
	} else {
		for _, channel := range channels {
			files = append(files, c.cacheFile(channel))
		}
	}
	for _, file := range files {
		if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
