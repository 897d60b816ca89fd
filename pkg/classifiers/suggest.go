package classifiers

import (
	"github.com/datawire/shippinglabel/pkg/python/pep503"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

// classifiersByDependency maps well-known distribution names to the
// classifiers that depending on them implies.
//
//nolint:gochecknoglobals // Would be 'const'.
var classifiersByDependency = map[string][]string{
	"dash":       {"Framework :: Dash"},
	"jupyter":    {"Framework :: Jupyter"},
	"matplotlib": {"Framework :: Matplotlib"},
	"pygame": {
		"Topic :: Software Development :: Libraries :: pygame",
		"Topic :: Games/Entertainment",
	},
	"arcade": {"Topic :: Games/Entertainment"},
	"flake8": {
		"Framework :: Flake8",
		"Intended Audience :: Developers",
	},
	"flask": {
		"Framework :: Flask",
		"Topic :: Internet :: WWW/HTTP :: WSGI :: Application",
		"Topic :: Internet :: WWW/HTTP :: Dynamic Content",
	},
	"werkzeug": {"Topic :: Internet :: WWW/HTTP :: WSGI :: Application"},
	"click":    {"Environment :: Console"},
	"typer":    {"Environment :: Console"},
	"pytest": {
		"Framework :: Pytest",
		"Topic :: Software Development :: Quality Assurance",
		"Topic :: Software Development :: Testing",
		"Topic :: Software Development :: Testing :: Unit",
		"Intended Audience :: Developers",
	},
	"tox": {
		"Framework :: tox",
		"Topic :: Software Development :: Quality Assurance",
		"Topic :: Software Development :: Testing",
		"Topic :: Software Development :: Testing :: Unit",
		"Intended Audience :: Developers",
	},
	"sphinx": {
		"Framework :: Sphinx :: Extension",
		"Topic :: Documentation",
		"Topic :: Documentation :: Sphinx",
		"Topic :: Software Development :: Documentation",
		"Intended Audience :: Developers",
	},
}

// Suggest returns the classifiers implied by the given requirements, sorted
// and deduplicated.  Requirement names are matched in their normalized form.
func Suggest(reqs []requirements.Requirement) []string {
	seen := make(map[string]struct{})
	var suggestions []string
	for _, req := range reqs {
		for _, classifier := range classifiersByDependency[pep503.Normalize(req.Name)] {
			if _, dup := seen[classifier]; dup {
				continue
			}
			seen[classifier] = struct{}{}
			suggestions = append(suggestions, classifier)
		}
	}
	return Sorted(suggestions)
}
