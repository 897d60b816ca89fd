package requirements

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/datawire/shippinglabel/pkg/python/pep503"
	"github.com/datawire/shippinglabel/pkg/python/pep508"
)

// A Flavour says which pyproject.toml convention the dependencies follow.
type Flavour string

const (
	// FlavourAuto uses PEP 621 when a [project] table exists, else Flit.
	FlavourAuto Flavour = "auto"
	// FlavourPEP621 reads [project] dependencies / optional-dependencies.
	FlavourPEP621 Flavour = "pep621"
	// FlavourFlit reads [tool.flit.metadata] requires / requires-extra.
	FlavourFlit Flavour = "flit"
)

type pyprojectFile struct {
	Project *struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	Tool struct {
		Flit *struct {
			Metadata struct {
				Requires      []string            `toml:"requires"`
				RequiresExtra map[string][]string `toml:"requires-extra"`
			} `toml:"metadata"`
		} `toml:"flit"`
	} `toml:"tool"`
}

func readPyproject(file string, flavour Flavour) (*pyprojectFile, Flavour, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, flavour, err
	}
	var config pyprojectFile
	if err := toml.Unmarshal(bs, &config); err != nil {
		return nil, flavour, err
	}
	if flavour == FlavourAuto {
		switch {
		case config.Project != nil:
			flavour = FlavourPEP621
		case config.Tool.Flit != nil:
			flavour = FlavourFlit
		}
	}
	return &config, flavour, nil
}

// PyprojectDependencies reads the project's dependency list from its
// pyproject.toml.  Entries that do not parse are dropped silently; linting
// pyproject files is other tools' business.
func PyprojectDependencies(file string, flavour Flavour, opts ...Option) ([]Requirement, error) {
	config, flavour, err := readPyproject(file, flavour)
	if err != nil {
		return nil, fmt.Errorf("requirements.PyprojectDependencies: %w", err)
	}
	var deps []string
	switch flavour {
	case FlavourPEP621:
		if config.Project != nil {
			deps = config.Project.Dependencies
		}
	case FlavourFlit:
		if config.Tool.Flit != nil {
			deps = config.Tool.Flit.Metadata.Requires
		}
	}
	return parseList(deps, opts), nil
}

// PyprojectExtras reads the project's optional-dependency groups from its
// pyproject.toml.
func PyprojectExtras(file string, flavour Flavour, opts ...Option) (map[string][]Requirement, error) {
	config, flavour, err := readPyproject(file, flavour)
	if err != nil {
		return nil, fmt.Errorf("requirements.PyprojectExtras: %w", err)
	}
	var groups map[string][]string
	switch flavour {
	case FlavourPEP621:
		if config.Project != nil {
			groups = config.Project.OptionalDependencies
		}
	case FlavourFlit:
		if config.Tool.Flit != nil {
			groups = config.Tool.Flit.Metadata.RequiresExtra
		}
	}
	ret := make(map[string][]Requirement, len(groups))
	for extra, deps := range groups {
		ret[extra] = parseList(deps, opts)
	}
	return ret, nil
}

func parseList(deps []string, opts []Option) []Requirement {
	cfg := parseConfig{normalize: pep503.Normalize}
	for _, opt := range opts {
		opt(&cfg)
	}
	var ret []Requirement
	seen := make(map[string]struct{})
	for _, dep := range deps {
		parsed, err := pep508.ParseRequirement(dep)
		if err != nil {
			continue
		}
		req := Requirement(*parsed)
		req.Name = denormalizeRuamel(cfg.normalize(req.Name))
		key := req.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ret = append(ret, req)
	}
	return ret
}
