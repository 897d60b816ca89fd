// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

package conda_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/shippinglabel/pkg/conda"
	"github.com/datawire/shippinglabel/pkg/testutil"
)

func TestDescription(t *testing.T) {
	t.Parallel()
	testcases := map[string]struct {
		Summary  string
		Channels []string
		Exp      string
	}{
		"no-channels": {
			Summary: "A library.",
			Exp:     "A library.",
		},
		"channels-sorted": {
			Summary:  "A library.",
			Channels: []string{"domdfcoding", "conda-forge"},
			Exp: "A library.\n\n\n" +
				"Before installing please ensure you have added the following channels: conda-forge, domdfcoding\n",
		},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.Exp, conda.Description(tc.Summary, tc.Channels...))
		})
	}
}

func TestNewRecipe(t *testing.T) {
	t.Parallel()
	meta := conda.RecipeMeta{
		Name:        "Demo-Project",
		Version:     "1.2.3",
		Summary:     "A demonstration project.",
		HomePage:    "https://example.com/demo-project",
		License:     "MIT",
		Maintainers: []string{"jdoe"},
	}
	recipe := conda.NewRecipe(meta, mustParseRequirement(t, "packaging>=21"))

	content, err := recipe.Render()
	require.NoError(t, err)
	expected := `package:
  name: demo-project
  version: 1.2.3
source:
  url: https://pypi.io/packages/source/d/demo-project/demo-project-1.2.3.tar.gz
build:
  noarch: python
  number: 0
  script: python -m pip install . -vv
requirements:
  build:
  - python
  - setuptools
  - wheel
  host:
  - pip
  - python
  - packaging>=21
  run:
  - python
  - packaging>=21
test:
  imports:
  - demo_project
about:
  home: https://example.com/demo-project
  license: MIT
  summary: A demonstration project.
  description: A demonstration project.
extra:
  recipe-maintainers:
  - jdoe
`
	testutil.AssertEqualText(t, expected, string(content))
}

func TestNewRecipeChannels(t *testing.T) {
	t.Parallel()
	meta := conda.RecipeMeta{
		Name:     "demo-project",
		Version:  "1.2.3",
		Summary:  "A demonstration project.",
		Channels: []string{"domdfcoding", "conda-forge"},
	}
	recipe := conda.NewRecipe(meta)

	assert.Equal(t, "A demonstration project.\n\n\n"+
		"Before installing please ensure you have added the following channels: conda-forge, domdfcoding\n",
		recipe.About.Description)
	assert.Equal(t, []string{"pip", "python"}, recipe.Requirements.Host)
	assert.Equal(t, []string{"python"}, recipe.Requirements.Run)
}
