package pypi_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/datawire/dlib/dlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datawire/shippinglabel/pkg/pypi"
)

// newLatestServer serves just enough JSON API for Latest lookups.
func newLatestServer(t *testing.T, latest map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for name, version := range latest {
		name, version := name, version
		mux.HandleFunc("/pypi/"+name+"/json", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprintf(w, `{"info": {"name": %q, "version": %q}, "releases": {}}`, name, version)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestBindRequirements(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	srv := newLatestServer(t, map[string]string{
		"alpha":     "2.0",
		"beta-beta": "0.5",
	})
	client := pypi.Client{BaseURL: srv.URL + "/pypi/"}

	file := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(file, []byte("# deps\n"+
		"Alpha\n"+
		"beta_beta>=0.1\n"+
		"gamma @ https://example.com/gamma.whl\n"+
		"not a requirement!\n"), 0o644))

	changed, err := client.BindRequirements(ctx, file, "")
	require.NoError(t, err)
	assert.True(t, changed)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "# deps\n"+
		"not a requirement!\n"+
		"alpha>=2.0\n"+
		"beta-beta>=0.1\n"+
		"gamma@ https://example.com/gamma.whl\n", string(content))

	// Already bound and in canonical form, so a second run is a no-op.
	changed, err = client.BindRequirements(ctx, file, "")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = client.BindRequirements(ctx, file, "~")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid specifier "~"`)
}

func TestBindRequirementsOperator(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	srv := newLatestServer(t, map[string]string{"alpha": "2.0"})
	client := pypi.Client{BaseURL: srv.URL + "/pypi/"}

	file := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(file, []byte("alpha\n"), 0o644))

	changed, err := client.BindRequirements(ctx, file, "~=")
	require.NoError(t, err)
	assert.True(t, changed)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "alpha~=2.0\n", string(content))
}

func TestBindRequirementsContent(t *testing.T) {
	t.Parallel()
	ctx := dlog.NewTestContext(t, false)
	srv := newLatestServer(t, map[string]string{"alpha": "2.0"})
	client := pypi.Client{BaseURL: srv.URL + "/pypi/"}

	content, err := client.BindRequirementsContent(ctx, []byte("# deps\nAlpha\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "# deps\nalpha>=2.0\n", string(content))

	// Rebinding bound content must be stable.
	again, err := client.BindRequirementsContent(ctx, content, "")
	require.NoError(t, err)
	assert.Equal(t, string(content), string(again))

	_, err = client.BindRequirementsContent(ctx, []byte("alpha\n"), "=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pypi.BindRequirementsContent:")
	assert.Contains(t, err.Error(), `invalid specifier "="`)
}
