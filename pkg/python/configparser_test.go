package python_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/shippinglabel/pkg/python"
)

func TestConfigParser(t *testing.T) {
	t.Parallel()
	type testcase struct {
		Input       string
		Setup       func(*python.ConfigParser)
		Expected    python.Config
		ExpectedErr string
	}
	testcases := map[string]testcase{
		"basic": {
			Input: "" +
				"[metadata]\n" +
				"Name = shippinglabel\n" +
				"version = 0.16.0\n",
			Expected: python.Config{
				"metadata": {
					"name":    "shippinglabel",
					"version": "0.16.0",
				},
			},
		},
		"colon-delimiter": {
			Input: "" +
				"[metadata]\n" +
				"name: shippinglabel\n",
			Expected: python.Config{
				"metadata": {
					"name": "shippinglabel",
				},
			},
		},
		"continuation-lines": {
			Input: "" +
				"[options]\n" +
				"install_requires =\n" +
				"\tpackaging>=20.9\n" +
				"\trequests\n",
			Expected: python.Config{
				"options": {
					"install_requires": "\npackaging>=20.9\nrequests",
				},
			},
		},
		"empty-line-in-value": {
			Input: "" +
				"[a]\n" +
				"x = 1\n" +
				"\n" +
				"\t2\n",
			Expected: python.Config{
				"a": {
					"x": "1\n\n2",
				},
			},
		},
		"comments": {
			Input: "" +
				"# leading comment\n" +
				"[section]\n" +
				"key = value ; kept by default\n" +
				"; full-line comment\n",
			Expected: python.Config{
				"section": {
					"key": "value ; kept by default",
				},
			},
		},
		"inline-comments": {
			Input: "" +
				"[section]\n" +
				"key = value ; stripped\n",
			Setup: func(p *python.ConfigParser) {
				p.InlineCommentPrefixes = []string{";"}
			},
			Expected: python.Config{
				"section": {
					"key": "value",
				},
			},
		},
		"duplicate-section": {
			Input: "" +
				"[a]\n" +
				"x = 1\n" +
				"[a]\n",
			ExpectedErr: `line 3: duplicate section name "a"`,
		},
		"duplicate-option": {
			Input: "" +
				"[a]\n" +
				"x = 1\n" +
				"x = 2\n",
			ExpectedErr: `line 3: duplicate option name "x"`,
		},
		"non-strict-duplicates": {
			Input: "" +
				"[a]\n" +
				"x = 1\n" +
				"x = 2\n",
			Setup: func(p *python.ConfigParser) {
				p.Strict = false
			},
			Expected: python.Config{
				"a": {
					"x": "2",
				},
			},
		},
		"no-section": {
			Input:       "x = 1\n",
			ExpectedErr: "line 1: no section header",
		},
		"unsectioned": {
			Input: "" +
				"home = /usr/bin\n" +
				"version = 3.9.9\n" +
				"[extra]\n" +
				"key = val\n",
			Setup: func(p *python.ConfigParser) {
				p.AllowUnsectioned = true
			},
			Expected: python.Config{
				"": {
					"home":    "/usr/bin",
					"version": "3.9.9",
				},
				"extra": {
					"key": "val",
				},
			},
		},
		"invalid-line": {
			Input: "" +
				"[a]\n" +
				"justaword\n",
			ExpectedErr: `line 2: invalid line: "justaword"`,
		},
	}
	for tcName, tc := range testcases {
		tc := tc
		t.Run(tcName, func(t *testing.T) {
			t.Parallel()
			parser := python.NewConfigParser()
			if tc.Setup != nil {
				tc.Setup(parser)
			}
			config, err := parser.Parse(strings.NewReader(tc.Input))
			if tc.ExpectedErr != "" {
				assert.EqualError(t, err, tc.ExpectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.Expected, config)
			}
		})
	}
}
