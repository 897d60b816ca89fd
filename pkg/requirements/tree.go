package requirements

import (
	"errors"
	"fmt"
	"sort"

	"github.com/datawire/shippinglabel/pkg/python/distdb"
	"github.com/datawire/shippinglabel/pkg/python/pep503"
	"github.com/datawire/shippinglabel/pkg/python/pep508"
)

// A TreeNode is one requirement in a dependency tree.
type TreeNode struct {
	Requirement Requirement
	// Deps holds the requirement's own requirements, as far as the
	// recursion depth allows.
	Deps []TreeNode
}

// Tree walks the dependency tree of an installed distribution.  The
// top-level nodes are the distribution's Requires-Dist entries sorted
// alphabetically, each node's children are that dependency's own
// requirements, and so on for depth levels (negative depth means
// unlimited).  Entries whose markers do not hold are skipped; the marker
// environment gets the parent requirement's first extra.  Dependencies that
// are not installed get no children; circular dependencies are not
// descended into.
func Tree(name string, depth int, db *distdb.Database) ([]TreeNode, error) {
	parsed, err := pep508.ParseRequirement(name)
	if err != nil {
		return nil, fmt.Errorf("requirements.Tree: %w", err)
	}
	req := Requirement(*parsed)
	if _, err := db.Distribution(req.Name); err != nil {
		return nil, fmt.Errorf("requirements.Tree: %w", err)
	}
	walker := &treeWalker{db: db, active: make(map[string]struct{})}
	nodes, err := walker.walk(req, depth)
	if err != nil {
		return nil, fmt.Errorf("requirements.Tree: %w", err)
	}
	return nodes, nil
}

type treeWalker struct {
	db     *distdb.Database
	active map[string]struct{}
}

func (w *treeWalker) walk(parent Requirement, depth int) ([]TreeNode, error) {
	if depth == 0 {
		return nil, nil
	}
	key := pep503.Normalize(parent.Name)
	if _, cycle := w.active[key]; cycle {
		return nil, nil
	}

	dist, err := w.db.Distribution(parent.Name)
	if err != nil {
		if errors.Is(err, distdb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	md, err := dist.Metadata()
	if err != nil {
		return nil, err
	}

	extra := ""
	if len(parent.Extras) > 0 {
		extra = parent.Extras[0]
	}
	env := pep508.EnvironmentWithExtra(extra)

	rawDeps := append([]string(nil), md.RequiresDist...)
	sort.Strings(rawDeps)

	w.active[key] = struct{}{}
	defer delete(w.active, key)

	var nodes []TreeNode
	for _, rawDep := range rawDeps {
		parsedDep, err := pep508.ParseRequirement(rawDep)
		if err != nil {
			return nil, err
		}
		dep := Requirement(*parsedDep)
		dep.Name = pep503.NormalizeKeepDot(dep.Name)
		if dep.Marker != nil {
			ok, err := dep.Marker.Evaluate(env)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		node := TreeNode{Requirement: dep}
		node.Deps, err = w.walk(dep, depth-1)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
