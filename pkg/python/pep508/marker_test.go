package pep508_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/shippinglabel/pkg/python/pep508"
)

func TestParseMarker(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Input string
		// Exp is the normalized rendering; "" means a parse error.
		Exp string
	}{
		"simple":         {`os_name == "posix"`, `os_name == "posix"`},
		"single-quotes":  {`os_name=='posix'`, `os_name == "posix"`},
		"spacing":        {`python_version<"3.8"`, `python_version < "3.8"`},
		"and-chain":      {`python_version >= "3.6" and os_name == "posix"`, `python_version >= "3.6" and os_name == "posix"`},
		"grouped-or":     {`(python_version < "3.7" or sys_platform == "win32") and extra == "cli"`, `(python_version < "3.7" or sys_platform == "win32") and extra == "cli"`},
		"redundant-faff": {`(os_name == "nt")`, `os_name == "nt"`},
		"precedence":     {`extra == "a" or extra == "b" and extra == "c"`, `extra == "a" or extra == "b" and extra == "c"`},
		"in":             {`"win" in sys_platform`, `"win" in sys_platform`},
		"not-in":         {`platform_machine not  in 'arm64 aarch64'`, `platform_machine not in "arm64 aarch64"`},
		"tight-or":       {`python_version<'3'or os_name=='nt'`, `python_version < "3" or os_name == "nt"`},
		"dotted-alias":   {`os.name == 'posix'`, `os_name == "posix"`},
		"impl-alias":     {`python_implementation=="CPython"`, `platform_python_implementation == "CPython"`},
		"tilde":          {`python_full_version ~= '3.6.2'`, `python_full_version ~= "3.6.2"`},

		"empty":            {``, ``},
		"unknown-variable": {`nonsense == "x"`, ``},
		"missing-rhs":      {`os_name == `, ``},
		"unterminated":     {`os_name == "posix`, ``},
		"bad-op":           {`os_name >< "posix"`, ``},
		"trailing":         {`os_name == "posix" os_name`, ``},
		"unbalanced":       {`(os_name == "posix"`, ``},
		"not-without-in":   {`os_name not "posix"`, ``},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			marker, err := pep508.ParseMarker(tc.Input)
			if tc.Exp == "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "invalid marker")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Exp, marker.String())

			// The normal form must itself parse, to the same normal form.
			reparsed, err := pep508.ParseMarker(marker.String())
			require.NoError(t, err)
			assert.Equal(t, tc.Exp, reparsed.String())
		})
	}
}

func TestMarkerEvaluate(t *testing.T) {
	t.Parallel()

	kernelEnv := pep508.DefaultEnvironment()
	kernelEnv["platform_release"] = "5.15.0-generic"

	testcases := map[string]struct {
		Marker string
		// Env nil means DefaultEnvironment.
		Env    map[string]string
		Exp    bool
		ExpErr bool
	}{
		"python-ge":         {Marker: `python_version >= "3.6"`, Exp: true},
		"python-lt":         {Marker: `python_version < "3.7"`, Exp: false},
		"not-string-order":  {Marker: `python_full_version < "3.10.0"`, Exp: true},
		"zero-padded":       {Marker: `python_version == "3.09"`, Exp: true},
		"wildcard":          {Marker: `python_version == "3.*"`, Exp: true},
		"wildcard-ne":       {Marker: `python_version != "2.*"`, Exp: true},
		"wildcard-miss":     {Marker: `python_version == "2.*"`, Exp: false},
		"compatible":        {Marker: `python_version ~= "3.6"`, Exp: true},
		"string-eq":         {Marker: `sys_platform == "linux"`, Exp: true},
		"in":                {Marker: `"nux" in sys_platform`, Exp: true},
		"in-miss":           {Marker: `"win" in sys_platform`, Exp: false},
		"not-in":            {Marker: `platform_machine not in "aarch64 arm64"`, Exp: true},
		"arbitrary-eq":      {Marker: `platform_system === "Linux"`, Exp: true},
		"arbitrary-case":    {Marker: `platform_system === "linux"`, Exp: false},
		"and":               {Marker: `os_name == "posix" and python_version >= "3.6"`, Exp: true},
		"or":                {Marker: `os_name == "nt" or sys_platform == "linux"`, Exp: true},
		"grouping":          {Marker: `(os_name == "nt" or os_name == "posix") and python_version > "3"`, Exp: true},
		"literal-literal":   {Marker: `"a" < "b"`, Exp: true},
		"reversed-operands": {Marker: `"3.6" < python_version`, Exp: true},

		"extra":     {Marker: `extra == "docs"`, Env: pep508.EnvironmentWithExtra("docs"), Exp: true},
		"not-extra": {Marker: `extra == "docs"`, Env: pep508.EnvironmentWithExtra("test"), Exp: false},

		"unparseable-release": {Marker: `platform_release >= "4"`, Env: kernelEnv, Exp: true},

		"undefined-extra":   {Marker: `extra == "docs"`, ExpErr: true},
		"no-short-circuit":  {Marker: `extra == "a" or os_name == "posix"`, ExpErr: true},
		"tilde-on-string":   {Marker: `platform_system ~= "Linux"`, ExpErr: true},
		"tilde-one-segment": {Marker: `python_version ~= "3"`, ExpErr: true},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			marker, err := pep508.ParseMarker(tc.Marker)
			require.NoError(t, err)

			env := tc.Env
			if env == nil {
				env = pep508.DefaultEnvironment()
			}
			val, err := marker.Evaluate(env)
			if tc.ExpErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Exp, val)
		})
	}
}

func TestEnvironments(t *testing.T) {
	t.Parallel()
	env := pep508.DefaultEnvironment()
	assert.NotContains(t, env, "extra")
	assert.Equal(t, "cpython", env["implementation_name"])

	env = pep508.EnvironmentWithExtra("docs")
	assert.Equal(t, "docs", env["extra"])
	assert.Equal(t, pep508.DefaultEnvironment()["python_version"], env["python_version"])
}
