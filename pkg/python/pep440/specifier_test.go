package pep440_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/shippinglabel/pkg/python/pep440"
)

func TestParseSpecifier(t *testing.T) {
	t.Parallel()
	// input to canonical rendering
	testcases := map[string]string{
		"==1.0":            "==1.0",
		" >= 1.0 , < 2.0 ": "<2.0,>=1.0",
		"~= 2.2.post3":     "~=2.2.post3",
		"==1.1.*":          "==1.1.*",
		"!= 1.1.*":         "!=1.1.*",
		"=== lolwut":       "===lolwut",
		"==1.0, ==1.0":     "==1.0",
		",":                "",
		"":                 "",
	}
	for input, expected := range testcases {
		input := input
		expected := expected
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			spec, err := pep440.ParseSpecifier(input)
			require.NoError(t, err)
			assert.Equal(t, expected, spec.String())
		})
	}
}

func TestParseSpecifierErrors(t *testing.T) {
	t.Parallel()
	testcases := []string{
		"1.0",
		"=>1.0",
		"~=1",
		"~=1.0+local",
		"==1.0.dev1.*",
		">=1.0+local",
		"<=1.3.*",
		"===",
		"== french toast",
	}
	for _, input := range testcases {
		input := input
		t.Run(input, func(t *testing.T) {
			t.Parallel()
			spec, err := pep440.ParseSpecifier(input)
			assert.Error(t, err)
			assert.Nil(t, spec)
		})
	}
}

func TestSpecifierMatch(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		spec    string
		version string
		expect  bool
	}{
		// compatible release
		{"~=2.2", "2.3", true},
		{"~=2.2", "2.2.1", true},
		{"~=2.2", "3.0", false},
		{"~=2.2", "2.1", false},
		{"~=1.4.5", "1.4.9", true},
		{"~=1.4.5", "1.5.0", false},
		{"~=2.2.post3", "2.2.post4", true},
		{"~=2.2.post3", "2.3", true},
		{"~=2.2.post3", "2.2", false},
		// version matching
		{"==3.1", "3.1", true},
		{"==3.1", "3.1.0", true},
		{"==3.1", "3.1.1", false},
		{"==3.1", "3.1+downstream1", true},
		{"==3.1+foo", "3.1+foo", true},
		{"==3.1+foo", "3.1", false},
		// prefix matching
		{"==3.1.*", "3.1.1", true},
		{"==3.1.*", "3.1a1", true},
		{"==3.1.*", "3.2", false},
		{"==1.1.post1.*", "1.1.post1", true},
		{"==1.1.post1.*", "1.1", false},
		{"==1.1a1.*", "1.1a1", true},
		{"==1.1a1.*", "1.1", false},
		{"==1.1.0.*", "1.1", true},
		// exclusion
		{"!=3.1", "3.1.0", false},
		{"!=3.1", "3.2", true},
		{"!=3.1.*", "3.1.2", false},
		{"!=3.1.*", "3.2", true},
		// inclusive ordered comparison
		{">=1.0", "1.0", true},
		{">=1.0", "0.9", false},
		{">=1.0", "1.0+downstream1", true},
		{"<=1.0", "1.0", true},
		{"<=1.0", "1.0.post1", false},
		// exclusive ordered comparison
		{"<1.1", "1.0", true},
		{"<1.1", "1.1", false},
		{"<1.1", "1.1.dev1", false},
		{"<1.1", "1.1rc1", false},
		{"<1.1rc2", "1.1rc1", true},
		{"<1.1", "1.0rc1", true},
		{">1.7", "1.7.1", true},
		{">1.7", "1.7.0.post1", false},
		{">1.7.post2", "1.7.post3", true},
		{">1.7.post2", "1.7.1", true},
		{">1.7", "1.7.1+local", true},
		{">1.7", "1.7+local", false},
		// arbitrary equality
		{"===1.0", "1.0", true},
		{"===1.0.0", "1.0", false},
		// multiple clauses
		{">=1.0,<2.0", "1.5", true},
		{">=1.0,<2.0", "2.0", false},
		{"", "42.0", true},
	}
	for _, tc := range testcases {
		spec := mustParseSpecifier(t, tc.spec)
		ver := mustParseVersion(t, tc.version)
		assert.Equalf(t, tc.expect, spec.Match(ver),
			"specifier %q, version %q", tc.spec, tc.version)
	}
}

func TestSpecifierSelect(t *testing.T) {
	t.Parallel()
	choiceStrs := []string{"0.9", "1.0", "1.1a1", "1.2.dev3"}
	choices := make([]pep440.Version, len(choiceStrs))
	for i, str := range choiceStrs {
		choices[i] = mustParseVersion(t, str)
	}

	testcases := []struct {
		spec     string
		behavior pep440.ExclusionBehavior
		expect   string
	}{
		{">=1.0", pep440.ExcludePreReleases{}, "1.0"},
		{">=1.1", pep440.ExcludePreReleases{}, "1.2.dev3"},
		{">=1.0", nil, "1.2.dev3"},
		{">=1.0", pep440.AllowAll{}, "1.2.dev3"},
		{">=2.0", pep440.ExcludePreReleases{}, ""},
		{
			">1.0",
			pep440.ExcludePreReleases{AllowList: []pep440.Version{mustParseVersion(t, "1.1a1")}},
			"1.1a1",
		},
		{
			">=1.1",
			pep440.MultiExcluder{pep440.AllowAll{}, pep440.ExcludePreReleases{}},
			"1.2.dev3",
		},
	}
	for _, tc := range testcases {
		spec := mustParseSpecifier(t, tc.spec)
		selected := spec.Select(choices, tc.behavior)
		if tc.expect == "" {
			assert.Nilf(t, selected, "specifier %q", tc.spec)
		} else if assert.NotNilf(t, selected, "specifier %q", tc.spec) {
			assert.Equalf(t, tc.expect, selected.String(), "specifier %q", tc.spec)
		}
	}
}
