package requirements

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/datawire/shippinglabel/pkg/python/pep503"
)

// ManagerHooks customize the phases of Manager.Run; nil hooks are skipped.
type ManagerHooks struct {
	// Compile may add to or prune the target list, before the managed file
	// is read.
	Compile func(ctx context.Context, target []Requirement) ([]Requirement, error)
}

// A Manager maintains one requirements file of a repository: it merges the
// file's current contents into a target requirement list, drops whatever
// the library's own requirements.txt already pulls in, and writes the
// result back.
type Manager struct {
	// RepoPath is the repository root.
	RepoPath string
	// Filename is the managed file's path, relative to RepoPath.
	Filename string
	// Target is the static list of wanted requirements.
	Target []Requirement
	// Normalize, if non-nil, overrides pep503.Normalize.
	Normalize NormalizeFunc
	Hooks     ManagerHooks
}

func (m *Manager) normalize(name string) string {
	if m.Normalize != nil {
		return m.Normalize(name)
	}
	return pep503.Normalize(name)
}

// Run updates the managed requirements file and returns its path.  Running
// it again on its own output is a no-op.
func (m *Manager) Run(ctx context.Context) (string, error) {
	reqFile := filepath.Join(m.RepoPath, m.Filename)

	// 1. Make sure the managed file exists.
	if err := os.MkdirAll(filepath.Dir(reqFile), 0o755); err != nil {
		return "", err
	}
	if _, err := os.Stat(reqFile); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(reqFile, nil, 0o644); err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	// 2. Let the configuration adjust the target list.
	target := append([]Requirement(nil), m.Target...)
	if m.Hooks.Compile != nil {
		var err error
		target, err = m.Hooks.Compile(ctx, target)
		if err != nil {
			return "", err
		}
	}
	for i := range target {
		target[i].Name = denormalizeRuamel(m.normalize(target[i].Name))
	}

	// 3. Merge in what the file already has.
	current, err := Read(ctx, reqFile, WithNormalizeFunc(m.normalize))
	if err != nil {
		return "", err
	}
	target = Combine(append(current.Requirements, target...)...)

	// 4. Drop whatever the library itself already requires, except entries
	// that carry a marker or ask for different extras.
	lib, err := Read(ctx, filepath.Join(m.RepoPath, "requirements.txt"), WithNormalizeFunc(m.normalize))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		lib = &ParseResult{}
	}
	libExtras := make(map[string][]string, len(lib.Requirements))
	for _, req := range lib.Requirements {
		if req.Marker != nil {
			continue
		}
		libExtras[pep503.Normalize(req.Name)] = req.Extras
	}
	kept := make([]Requirement, 0, len(target))
	for _, req := range target {
		extras, inLib := libExtras[pep503.Normalize(req.Name)]
		if inLib && req.Marker == nil && extrasEqual(req.Extras, extras) {
			continue
		}
		kept = append(kept, req)
	}

	// 5. Write the result back.
	if err := Write(reqFile, kept, current.Comments); err != nil {
		return "", err
	}
	return reqFile, nil
}
