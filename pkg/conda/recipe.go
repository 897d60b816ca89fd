package conda

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/datawire/shippinglabel/pkg/python/pep503"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

// Description builds the about.description text for a recipe: the summary,
// plus a note asking the user to add the channels that the package needs.
func Description(summary string, channels ...string) string {
	if len(channels) == 0 {
		return summary
	}
	sorted := make([]string, len(channels))
	copy(sorted, channels)
	sort.Strings(sorted)
	return summary + "\n\n\n" +
		"Before installing please ensure you have added the following channels: " +
		strings.Join(sorted, ", ") + "\n"
}

// A Recipe is a conda-build meta.yaml document.  The fields marshal in the
// order they are declared in, which is the order conda-build documents them
// in.
type Recipe struct {
	Package      RecipePackage      `yaml:"package"`
	Source       RecipeSource       `yaml:"source"`
	Build        RecipeBuild        `yaml:"build"`
	Requirements RecipeRequirements `yaml:"requirements"`
	Test         RecipeTest         `yaml:"test"`
	About        RecipeAbout        `yaml:"about"`
	Extra        RecipeExtra        `yaml:"extra"`
}

type RecipePackage struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

type RecipeSource struct {
	URL string `yaml:"url"`
}

type RecipeBuild struct {
	Noarch string `yaml:"noarch"`
	Number int    `yaml:"number"`
	Script string `yaml:"script"`
}

type RecipeRequirements struct {
	Build []string `yaml:"build"`
	Host  []string `yaml:"host"`
	Run   []string `yaml:"run"`
}

type RecipeTest struct {
	Imports []string `yaml:"imports"`
}

type RecipeAbout struct {
	Home        string `yaml:"home"`
	License     string `yaml:"license"`
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
}

type RecipeExtra struct {
	Maintainers []string `yaml:"recipe-maintainers"`
}

// RecipeMeta is the project-level information that NewRecipe needs.
type RecipeMeta struct {
	Name        string
	Version     string
	Summary     string
	HomePage    string
	License     string
	Maintainers []string
	Channels    []string
}

// NewRecipe builds a Recipe for a pure-Python distribution, filling in the
// conventional conda-build values: the sdist on pypi.io as the source, a
// noarch pip install, and "python" alongside the given run requirements.
func NewRecipe(meta RecipeMeta, reqs ...requirements.Requirement) *Recipe {
	name := pep503.Normalize(meta.Name)

	host := []string{"pip", "python"}
	run := []string{"python"}
	for _, req := range reqs {
		host = append(host, req.String())
		run = append(run, req.String())
	}

	return &Recipe{
		Package: RecipePackage{
			Name:    name,
			Version: meta.Version,
		},
		Source: RecipeSource{
			URL: fmt.Sprintf("https://pypi.io/packages/source/%s/%s/%s-%s.tar.gz",
				name[:1], name, name, meta.Version),
		},
		Build: RecipeBuild{
			Noarch: "python",
			Number: 0,
			Script: "python -m pip install . -vv",
		},
		Requirements: RecipeRequirements{
			Build: []string{"python", "setuptools", "wheel"},
			Host:  host,
			Run:   run,
		},
		Test: RecipeTest{
			Imports: []string{strings.ReplaceAll(name, "-", "_")},
		},
		About: RecipeAbout{
			Home:        meta.HomePage,
			License:     meta.License,
			Summary:     meta.Summary,
			Description: Description(meta.Summary, meta.Channels...),
		},
		Extra: RecipeExtra{
			Maintainers: meta.Maintainers,
		},
	}
}

// Render produces the meta.yaml document.
func (r *Recipe) Render() (_ []byte, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("conda.Recipe.Render: %w", err)
		}
	}()
	return yaml.Marshal(r)
}
