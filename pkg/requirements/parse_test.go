// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package requirements_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/shippinglabel/pkg/python/pep503"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

func TestParse(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	lines := []string{
		"# header comment",
		"",
		"requests>=2.26",
		"Django",
		"ruamel_yaml>=0.17",
		"requests >=2.26",
		"not a requirement!",
		"   # indented comment",
		`domdf-python-tools[testing]>=2.0; python_version < '3.10'`,
	}
	result := requirements.Parse(ctx, lines, requirements.KeepInvalid())
	assert.Equal(t, []string{
		"requests>=2.26",
		"django",
		"ruamel.yaml>=0.17",
		`domdf-python-tools[testing]>=2.0; python_version < "3.10"`,
	}, requirementStrings(result.Requirements))
	assert.Equal(t, []string{"# header comment", "   # indented comment"}, result.Comments)
	assert.Equal(t, []string{"not a requirement!"}, result.Invalid)

	// Without KeepInvalid the bogus line is logged and forgotten.
	result = requirements.Parse(ctx, lines)
	assert.Len(t, result.Requirements, 4)
	assert.Nil(t, result.Invalid)
}

func TestParseNormalizeFunc(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	lines := []string{
		"ruamel.yaml",
		"Sphinx_Toolbox",
	}

	result := requirements.Parse(ctx, lines, requirements.WithNormalizeFunc(pep503.NormalizeKeepDot))
	assert.Equal(t, []string{"ruamel.yaml", "sphinx-toolbox"}, requirementStrings(result.Requirements))

	identity := func(name string) string { return name }
	result = requirements.Parse(ctx, lines, requirements.WithNormalizeFunc(identity))
	assert.Equal(t, []string{"ruamel.yaml", "Sphinx_Toolbox"}, requirementStrings(result.Requirements))
}

func TestCombine(t *testing.T) {
	t.Parallel()
	input := []string{
		"foo",
		"foo>=1.2",
		`foo; python_version < "3.8"`,
		"bar[a]>=1",
		"bar[b]",
		"foo==1.5",
	}
	reqs := make([]requirements.Requirement, 0, len(input))
	for _, str := range input {
		reqs = append(reqs, mustParseRequirement(t, str))
	}
	combined := requirements.Combine(reqs...)
	assert.Equal(t, []string{
		"foo==1.5",
		`foo; python_version < "3.8"`,
		"bar[a,b]>=1",
	}, requirementStrings(combined))
}

func TestCombineSpelling(t *testing.T) {
	t.Parallel()
	combined := requirements.Combine(
		mustParseRequirement(t, "ruamel.yaml>=0.17"),
		mustParseRequirement(t, "ruamel-yaml<0.18"),
	)
	assert.Equal(t, []string{"ruamel.yaml<0.18,>=0.17"}, requirementStrings(combined))
}

func TestReadWrite(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	file := filepath.Join(t.TempDir(), "requirements.txt")
	content := "# deps\nalabaster\nrequests>=2.26\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	result, err := requirements.Read(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, []string{"alabaster", "requests>=2.26"}, requirementStrings(result.Requirements))
	assert.Equal(t, []string{"# deps"}, result.Comments)

	require.NoError(t, requirements.Write(file, result.Requirements, result.Comments))
	bs, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, content, string(bs))
}

func TestReadCRLF(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	file := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(file, []byte("requests\r\ndjango\r\n"), 0o644))

	result, err := requirements.Read(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, []string{"requests", "django"}, requirementStrings(result.Requirements))
}

func TestWriteSorts(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "requirements.txt")
	reqs := []requirements.Requirement{
		mustParseRequirement(t, "zope-interface"),
		mustParseRequirement(t, "alabaster"),
		mustParseRequirement(t, "alabaster>=0.7"),
	}
	require.NoError(t, requirements.Write(file, reqs, []string{"# pinned"}))
	bs, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "# pinned\nalabaster>=0.7\nalabaster\nzope-interface\n", string(bs))
}
