package python

import (
	"strings"

	"github.com/datawire/shippinglabel/pkg/python/pep440"
)

// NoDevVersions returns the subset of versions that do not end in "-dev".
func NoDevVersions(versions []string) []string {
	ret := make([]string, 0, len(versions))
	for _, str := range versions {
		if strings.HasSuffix(str, "-dev") {
			continue
		}
		ret = append(ret, str)
	}
	return ret
}

// NoPreVersions returns the subset of versions that are not PEP 440
// pre-releases (alpha, beta, rc, dev).  Entries that do not parse as PEP 440
// versions at all are kept.
func NoPreVersions(versions []string) []string {
	ret := make([]string, 0, len(versions))
	for _, str := range versions {
		if ver, err := pep440.ParseVersion(str); err == nil && ver.IsPreRelease() {
			continue
		}
		ret = append(ret, str)
	}
	return ret
}
