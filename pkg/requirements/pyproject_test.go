package requirements_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/shippinglabel/pkg/requirements"
)

const pep621Pyproject = `
[build-system]
requires = ["setuptools", "wheel"]

[project]
name = "whey"
dependencies = [
    "httpx",
    "gidgethub[httpx]>4.0.0",
    "django>2.1; os_name != 'nt'",
    "totally invalid requirement ###",
]

[project.optional-dependencies]
test = ["pytest < 5.0.0", "pytest-cov[all]"]
`

const flitPyproject = `
[build-system]
requires = ["flit_core"]

[tool.flit.metadata]
module = "whey"
requires = ["requests >= 2.20", "docutils"]

[tool.flit.metadata.requires-extra]
doc = ["sphinx"]
`

func writePyproject(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "pyproject.toml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestPyprojectDependencies(t *testing.T) {
	t.Parallel()
	type TestCase struct {
		Content string
		Flavour requirements.Flavour
		Exp     []string
	}
	testcases := map[string]TestCase{
		"pep621-auto": {pep621Pyproject, requirements.FlavourAuto,
			[]string{"httpx", "gidgethub[httpx]>4.0.0", `django>2.1; os_name != "nt"`}},
		"pep621-explicit": {pep621Pyproject, requirements.FlavourPEP621,
			[]string{"httpx", "gidgethub[httpx]>4.0.0", `django>2.1; os_name != "nt"`}},
		"pep621-as-flit": {pep621Pyproject, requirements.FlavourFlit, nil},
		"flit-auto":      {flitPyproject, requirements.FlavourAuto, []string{"requests>=2.20", "docutils"}},
		"flit-explicit":  {flitPyproject, requirements.FlavourFlit, []string{"requests>=2.20", "docutils"}},
		"flit-as-pep621": {flitPyproject, requirements.FlavourPEP621, nil},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			file := writePyproject(t, tc.Content)
			deps, err := requirements.PyprojectDependencies(file, tc.Flavour)
			require.NoError(t, err)
			if tc.Exp == nil {
				assert.Empty(t, deps)
			} else {
				assert.Equal(t, tc.Exp, requirementStrings(deps))
			}
		})
	}
}

func TestPyprojectExtras(t *testing.T) {
	t.Parallel()

	file := writePyproject(t, pep621Pyproject)
	extras, err := requirements.PyprojectExtras(file, requirements.FlavourAuto)
	require.NoError(t, err)
	require.Contains(t, extras, "test")
	assert.Equal(t, []string{"pytest<5.0.0", "pytest-cov[all]"}, requirementStrings(extras["test"]))

	file = writePyproject(t, flitPyproject)
	extras, err = requirements.PyprojectExtras(file, requirements.FlavourAuto)
	require.NoError(t, err)
	require.Contains(t, extras, "doc")
	assert.Equal(t, []string{"sphinx"}, requirementStrings(extras["doc"]))
}

func TestPyprojectMissing(t *testing.T) {
	t.Parallel()
	_, err := requirements.PyprojectDependencies(filepath.Join(t.TempDir(), "pyproject.toml"), requirements.FlavourAuto)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requirements.PyprojectDependencies")
}
