package pep503

// PEP 629 -- Versioning PyPI's Simple API.
//
// https://www.python.org/dev/peps/pep-0629/

import (
	"context"
	"fmt"

	"github.com/datawire/dlib/dlog"
	"golang.org/x/net/html"

	"github.com/datawire/shippinglabel/pkg/htmlutil"
	"github.com/datawire/shippinglabel/pkg/python/pep440"
)

// SupportedRepositoryVersion is the newest repository API version that this
// package knows how to talk to.
//
//nolint:gochecknoglobals // Would be 'const'.
var SupportedRepositoryVersion, _ = pep440.ParseVersion("1.0")

// RepositoryVersion extracts an index page's declared API version,
//
//	<meta name="pypi:repository-version" content="1.0">
//
// defaulting to 1.0 when the page does not declare one.
func RepositoryVersion(doc *html.Node) (*pep440.Version, error) {
	var verStr string
	err := htmlutil.VisitHTML(doc, nil, func(node *html.Node) error {
		if node.Type != html.ElementNode || node.Data != "meta" {
			return nil
		}
		if name, _ := htmlutil.GetAttr(node, "", "name"); name != "pypi:repository-version" {
			return nil
		}
		if content, ok := htmlutil.GetAttr(node, "", "content"); ok {
			verStr = content
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if verStr == "" {
		verStr = "1.0"
	}
	return pep440.ParseVersion(verStr)
}

// CheckRepositoryVersion is the default Client.HTMLHook.  It rejects pages
// declaring a major version newer than SupportedRepositoryVersion, and logs
// a warning for a newer minor version.
func CheckRepositoryVersion(ctx context.Context, doc *html.Node) error {
	version, err := RepositoryVersion(doc)
	if err != nil {
		return err
	}
	if version.Major() > SupportedRepositoryVersion.Major() {
		return fmt.Errorf("server's pypi:repository-version (%s) is not compatible with this client", version)
	}
	if version.Minor() > SupportedRepositoryVersion.Minor() {
		dlog.Warnf(ctx, "server's pypi:repository-version (%s) is newer than this client", version)
	}
	return nil
}
