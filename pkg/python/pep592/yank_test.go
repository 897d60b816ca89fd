package pep592_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/shippinglabel/pkg/python/pep440"
	"github.com/datawire/shippinglabel/pkg/python/pep503"
	"github.com/datawire/shippinglabel/pkg/python/pep592"
)

func fileLink(text string, dataAttrs map[string]string) pep503.FileLink {
	return pep503.FileLink{
		Link: pep503.Link{
			Text:      text,
			HRef:      "https://files.example.com/" + text,
			DataAttrs: dataAttrs,
		},
	}
}

func TestFileYanked(t *testing.T) {
	t.Parallel()

	plain := fileLink("demo-1.0.0-py3-none-any.whl", nil)
	assert.Nil(t, pep592.FileYanked(plain))
	assert.False(t, pep592.IsYanked(plain))

	bare := fileLink("demo-1.1.0-py3-none-any.whl", map[string]string{"data-yanked": ""})
	require.NotNil(t, pep592.FileYanked(bare))
	assert.Nil(t, pep592.FileYanked(bare).Reason)
	assert.True(t, pep592.IsYanked(bare))

	reasoned := fileLink("demo-1.2.0-py3-none-any.whl", map[string]string{"data-yanked": "broken metadata"})
	require.NotNil(t, pep592.FileYanked(reasoned))
	require.NotNil(t, pep592.FileYanked(reasoned).Reason)
	assert.Equal(t, "broken metadata", *pep592.FileYanked(reasoned).Reason)
}

func TestExcludeYanked(t *testing.T) {
	t.Parallel()

	yanked := map[string]string{"data-yanked": ""}
	links := []pep503.FileLink{
		fileLink("demo-1.0.0-py3-none-any.whl", nil),
		// 1.1.0: only the wheel is yanked, so the version stays
		// available through the sdist.
		fileLink("demo-1.1.0-py3-none-any.whl", yanked),
		fileLink("demo-1.1.0.tar.gz", nil),
		// 1.2.0: every file is yanked.
		fileLink("demo-1.2.0-py3-none-any.whl", yanked),
		fileLink("demo-1.2.0.tar.gz", yanked),
		// Unparseable filenames are disregarded.
		fileLink("robots.txt", yanked),
	}
	exclusions := pep592.ExcludeYanked(links)

	mustParseVersion := func(str string) pep440.Version {
		version, err := pep440.ParseVersion(str)
		require.NoError(t, err)
		return *version
	}

	assert.True(t, exclusions.Allow(mustParseVersion("1.0.0")))
	assert.True(t, exclusions.Allow(mustParseVersion("1.1.0")))
	assert.False(t, exclusions.Allow(mustParseVersion("1.2.0")))
	assert.True(t, exclusions.Allow(mustParseVersion("9.9")))

	// Wired up to version selection: 1.2.0 is the newest, but it is
	// fully yanked, so selection falls back to 1.1.0.
	spec, err := pep440.ParseSpecifier(">=1")
	require.NoError(t, err)
	choice := spec.Select([]pep440.Version{
		mustParseVersion("1.0.0"),
		mustParseVersion("1.1.0"),
		mustParseVersion("1.2.0"),
	}, exclusions)
	require.NotNil(t, choice)
	assert.Equal(t, "1.1.0", choice.String())
}

func TestExcludeYankedFiles(t *testing.T) {
	t.Parallel()

	exclusions := pep592.ExcludeYankedFiles(map[string][]bool{
		"1.0.0":    {false},
		"1.1.0":    {true, false},
		"1.2.0":    {true, true},
		"1.3-rc1":  {true},
		"nonsense": {true},
		"2.0.0":    nil,
	})

	mustParseVersion := func(str string) pep440.Version {
		version, err := pep440.ParseVersion(str)
		require.NoError(t, err)
		return *version
	}

	assert.True(t, exclusions.Allow(mustParseVersion("1.0.0")))
	assert.True(t, exclusions.Allow(mustParseVersion("1.1.0")))
	assert.False(t, exclusions.Allow(mustParseVersion("1.2.0")))
	// The lookup goes through the canonical spelling.
	assert.False(t, exclusions.Allow(mustParseVersion("1.3rc1")))
	assert.True(t, exclusions.Allow(mustParseVersion("2.0.0")))
}
