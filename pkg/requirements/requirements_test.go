package requirements_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/shippinglabel/pkg/python/pep508"
	"github.com/datawire/shippinglabel/pkg/requirements"
)

func mustParseRequirement(t *testing.T, str string) requirements.Requirement {
	t.Helper()
	req, err := pep508.ParseRequirement(str)
	require.NoError(t, err)
	return requirements.Requirement(*req)
}

func requirementStrings(reqs []requirements.Requirement) []string {
	strs := make([]string, 0, len(reqs))
	for _, req := range reqs {
		strs = append(strs, req.String())
	}
	return strs
}

func TestRequirementCmp(t *testing.T) {
	t.Parallel()
	input := []string{
		"foo",
		`foo; python_version < "3.8"`,
		"bar>=1",
		"foo>=2",
		"alabaster",
		"bar",
	}
	reqs := make([]requirements.Requirement, 0, len(input))
	for _, str := range input {
		reqs = append(reqs, mustParseRequirement(t, str))
	}
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].Cmp(reqs[j]) < 0 })
	assert.Equal(t, []string{
		"alabaster",
		"bar>=1",
		"bar",
		"foo>=2",
		`foo; python_version < "3.8"`,
		"foo",
	}, requirementStrings(reqs))
}

func TestRequirementEquivalentTo(t *testing.T) {
	t.Parallel()
	testcases := []struct {
		A, B string
		Exp  bool
	}{
		{"foo", "foo", true},
		{"foo", "bar", false},
		{"foo", "foo>=1", true},
		{"foo>=1", "foo>=2", false},
		{"foo[extra]", "foo", true},
		{"foo[a]", "foo[b]", false},
		{"foo[a,b]", "foo[b,a]", true},
		{`foo; os_name == "posix"`, "foo", true},
		{`foo; os_name == "posix"`, `foo; os_name == "nt"`, false},
		{`foo; os_name=='posix'`, `foo; os_name == "posix"`, true},
		{"foo @ http://a", "foo @ http://b", false},
		{"foo @ http://a", "foo", true},
	}
	for _, tc := range testcases {
		tc := tc
		t.Run(tc.A+" vs "+tc.B, func(t *testing.T) {
			t.Parallel()
			a := mustParseRequirement(t, tc.A)
			b := mustParseRequirement(t, tc.B)
			assert.Equal(t, tc.Exp, a.EquivalentTo(b))
			assert.Equal(t, tc.Exp, b.EquivalentTo(a))
		})
	}
}
