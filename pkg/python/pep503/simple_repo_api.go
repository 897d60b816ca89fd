// Copyright (C) 2021-2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package pep503 implements PEP 503 -- Simple Repository API.
//
// https://www.python.org/dev/peps/pep-0503/
//
// Besides the repository client itself, this package provides the PEP's
// project name normalization rule, which the rest of the Python packaging
// ecosystem borrows whenever project names need comparing.
package pep503

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/datawire/shippinglabel/pkg/htmlutil"
	"github.com/datawire/shippinglabel/pkg/python"
	"github.com/datawire/shippinglabel/pkg/python/pep345"
	"github.com/datawire/shippinglabel/pkg/python/pep440"
)

//nolint:gochecknoglobals // Would be 'const'.
var (
	reNormalize        = regexp.MustCompile(`[-_.]+`)
	reNormalizeKeepDot = regexp.MustCompile(`[-_]+`)
)

// Normalize lowercases a project name and collapses runs of "-", "_", and
// "." into a single "-", which is the PEP's rule for comparing project
// names.
func Normalize(name string) string {
	return strings.ToLower(reNormalize.ReplaceAllLiteralString(name, "-"))
}

// NormalizeKeepDot is Normalize except that "." survives untouched; some
// ecosystems (conda among them) give dots in names meaning.
func NormalizeKeepDot(name string) string {
	return strings.ToLower(reNormalizeKeepDot.ReplaceAllLiteralString(name, "-"))
}

// PyPIBaseURL is the real-deal index that a zero Client talks to.
const PyPIBaseURL = "https://pypi.org/simple/"

// A Client accesses a simple-repository-API package index.  The zero value
// talks to PyPI.
type Client struct {
	// BaseURL is the root of the index; PyPIBaseURL if empty.
	BaseURL string
	// HTTPClient makes the requests; http.DefaultClient if nil.
	HTTPClient *http.Client
	// UserAgent is sent with each request.
	UserAgent string
	// Python, if non-nil, filters out files whose data-requires-python
	// constraint this interpreter version does not satisfy.
	Python *pep440.Version
	// HTMLHook runs on each fetched index page before it is interpreted;
	// CheckRepositoryVersion if nil.
	HTMLHook func(context.Context, *html.Node) error
}

func (c *Client) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = PyPIBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = http.DefaultClient
	}
	if c.UserAgent == "" {
		c.UserAgent = "github.com/datawire/shippinglabel/pkg/python/pep503"
	}
	if c.HTMLHook == nil {
		c.HTMLHook = CheckRepositoryVersion
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

func (c Client) get(ctx context.Context, requestURL string) (_ *url.URL, _ []byte, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("GET %q => %w", requestURL, err)
		}
	}()
	c.fillDefaults()

	// 1. Build the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)

	// 2. Do the networking
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return nil, nil, err
	}
	if err := resp.Body.Close(); err != nil {
		return nil, nil, err
	}

	// 3. Validate the result
	if resp.StatusCode != http.StatusOK {
		return nil, nil, &HTTPError{Status: resp.Status, StatusCode: resp.StatusCode}
	}
	if err := verifyFragment(requestURL, content); err != nil {
		return nil, nil, err
	}

	return resp.Request.URL, content, nil
}

// verifyFragment checks the "#<algorithm>=<hexdigest>" fragment that index
// file URLs carry, when there is one.
func verifyFragment(requestURL string, content []byte) error {
	u, err := url.Parse(requestURL)
	if err != nil || u.Fragment == "" {
		return nil
	}
	keyvals, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return nil
	}
	for algorithm, vals := range keyvals {
		newHash, ok := python.HashlibAlgorithmsGuaranteed[algorithm]
		if !ok {
			continue
		}
		for _, expected := range vals {
			h := newHash()
			_, _ = h.Write(content)
			actual := hex.EncodeToString(h.Sum(nil))
			if actual != expected {
				return fmt.Errorf("%s checksum mismatch: expected=%s actual=%s",
					algorithm, expected, actual)
			}
		}
	}
	return nil
}

// A Link is an <a> element from an index page, with its href resolved
// relative to the page's final URL.
type Link struct {
	Text      string
	HRef      string
	DataAttrs map[string]string
}

func (c Client) getHTML5Index(ctx context.Context, requestURL string) ([]Link, error) {
	location, content, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	if err := c.HTMLHook(ctx, doc); err != nil {
		return nil, err
	}

	var links []Link
	if err := htmlutil.VisitHTML(doc, nil, func(node *html.Node) error {
		if node.Type != html.ElementNode || node.Data != "a" {
			return nil
		}
		link := Link{
			DataAttrs: make(map[string]string),
		}
		for _, attr := range node.Attr {
			switch {
			case attr.Namespace == "" && attr.Key == "href":
				href, err := location.Parse(attr.Val)
				if err != nil {
					return err
				}
				link.HRef = href.String()
			case attr.Namespace == "" && strings.HasPrefix(attr.Key, "data-"):
				link.DataAttrs[attr.Key] = attr.Val
			}
		}
		link.Text = htmlutil.Text(node)
		links = append(links, link)
		return nil
	}); err != nil {
		return nil, err
	}

	return links, nil
}

// A PackageLink is a root index page's link to a project's file list.
type PackageLink struct {
	client Client
	Link
}

// ListPackages fetches the index's root page, which links to each project it
// serves.
func (c Client) ListPackages(ctx context.Context) ([]PackageLink, error) {
	c.fillDefaults()
	rawLinks, err := c.getHTML5Index(ctx, c.BaseURL)
	if err != nil {
		return nil, err
	}
	links := make([]PackageLink, 0, len(rawLinks))
	for _, link := range rawLinks {
		links = append(links, PackageLink{
			client: c,
			Link:   link,
		})
	}
	return links, nil
}

// A FileLink is a project page's link to a downloadable file.
type FileLink struct {
	client Client
	Link
}

// ListFiles fetches the project page that the link points at.
func (l PackageLink) ListFiles(ctx context.Context) ([]FileLink, error) {
	rawLinks, err := l.client.getHTML5Index(ctx, l.HRef)
	if err != nil {
		return nil, err
	}
	links := make([]FileLink, 0, len(rawLinks))
	for _, link := range rawLinks {
		links = append(links, FileLink{
			client: l.client,
			Link:   link,
		})
	}
	return links, nil
}

// ListPackageFiles fetches the given project's file list, without fetching
// the root index first.  If Client.Python is set, files whose
// data-requires-python the interpreter cannot satisfy are left out.
func (c Client) ListPackageFiles(ctx context.Context, pkgname string) ([]FileLink, error) {
	// "the only valid characters in a name are the ASCII alphabet, ASCII
	// numbers, `.`, `-`, and `_`."
	for _, char := range pkgname {
		if !(('a' <= char && char <= 'z') ||
			('A' <= char && char <= 'Z') ||
			('0' <= char && char <= '9') ||
			char == '.' ||
			char == '-' ||
			char == '_') {
			return nil, fmt.Errorf("illegal character in pkgname: %q: %s",
				pkgname, strconv.QuoteRuneToASCII(char))
		}
	}

	c.fillDefaults()
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	u.Path = path.Join(u.Path, Normalize(pkgname))
	rawLinks, err := c.getHTML5Index(ctx, u.String())
	if err != nil {
		return nil, err
	}
	links := make([]FileLink, 0, len(rawLinks))
	for _, link := range rawLinks {
		if c.Python != nil {
			if reqPy := link.DataAttrs["data-requires-python"]; reqPy != "" {
				ok, err := pep345.HaveRequiredPython(*c.Python, reqPy)
				if err == nil && !ok {
					continue
				}
			}
		}

		links = append(links, FileLink{
			client: c,
			Link:   link,
		})
	}
	return links, nil
}

// Get downloads the file, verifying any checksum fragment on its URL.
func (l FileLink) Get(ctx context.Context) ([]byte, error) {
	_, content, err := l.client.get(ctx, l.HRef)
	return content, err
}

// ErrNoSignature means the index has no detached signature for the file.
var ErrNoSignature = errors.New("no signature")

// GetSignature downloads the file's detached GPG signature, which the PEP
// places at the file's URL with ".asc" appended.
func (l FileLink) GetSignature(ctx context.Context) ([]byte, error) {
	switch l.DataAttrs["data-gpg-sig"] {
	case "false":
		return nil, ErrNoSignature
	case "true":
		_, content, err := l.client.get(ctx, l.signatureURL())
		return content, err
	default:
		// The index didn't say either way; try it and see.
		_, content, err := l.client.get(ctx, l.signatureURL())
		var httpErr *HTTPError
		if err != nil && errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			err = ErrNoSignature
		}
		return content, err
	}
}

func (l FileLink) signatureURL() string {
	u, err := url.Parse(l.HRef)
	if err != nil {
		return l.HRef + ".asc"
	}
	u.Fragment = ""
	u.Path += ".asc"
	return u.String()
}
