package pypi

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/datawire/shippinglabel/pkg/python/pep440"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

// BindRequirements rewrites a requirements file, pinning every requirement
// that has neither a version specifier nor a URL to the newest release:
// ">=<latest>", or whichever operator the specifier argument gives.  It
// reports whether the file changed, which it also does when binding nothing
// but the file was not in canonical form.
func (c Client) BindRequirements(ctx context.Context, file, specifier string) (_ bool, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pypi.BindRequirements: %w", err)
		}
	}()

	before, err := os.ReadFile(file)
	if err != nil {
		return false, err
	}
	content, err := c.bindRequirements(ctx, before, specifier)
	if err != nil {
		return false, err
	}
	if bytes.Equal(before, content) {
		return false, nil
	}
	if err := renameio.WriteFile(file, content, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// BindRequirementsContent is BindRequirements for requirements file content
// that is already in memory: it returns the rebound content instead of
// rewriting a file.
func (c Client) BindRequirementsContent(ctx context.Context, content []byte, specifier string) (_ []byte, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pypi.BindRequirementsContent: %w", err)
		}
	}()
	return c.bindRequirements(ctx, content, specifier)
}

func (c Client) bindRequirements(ctx context.Context, content []byte, specifier string) ([]byte, error) {
	switch specifier {
	case "":
		specifier = ">="
	case "<=", "<", "!=", "==", ">=", ">", "~=", "===":
		// ok
	default:
		return nil, fmt.Errorf("invalid specifier %q", specifier)
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	result := requirements.Parse(ctx, lines, requirements.KeepInvalid())

	for i := range result.Requirements {
		req := &result.Requirements[i]
		if req.URL != "" || len(req.Specifier) > 0 {
			continue
		}
		latest, err := c.Latest(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		spec, err := pep440.ParseSpecifier(specifier + latest)
		if err != nil {
			return nil, err
		}
		req.Specifier = spec
	}

	// Unparseable lines survive a rebind, between the comments and the
	// requirements.
	return requirements.Format(result.Requirements, append(result.Comments, result.Invalid...)), nil
}
