package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "harness.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestNewRegistry(t *testing.T) {
	path := writeConfig(t, `
testsuite_name: nightly
roots:
  - name: smoke
    path: checks/smoke
  - path: /opt/checks/test_api.go
    test: test_health
`)

	reg, err := NewRegistry(Config{File: path})
	require.NoError(t, err)

	assert.Equal(t, "nightly", reg.TestsuiteName("fallback"))

	roots := reg.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, "smoke", roots[0].Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "checks/smoke"), roots[0].Path, "relative paths resolve against the config dir")
	assert.Equal(t, "/opt/checks/test_api.go", roots[1].Path, "absolute paths are kept")
	assert.Equal(t, "test_health", roots[1].Test)
}

func TestNewRegistryDefaultsSuiteName(t *testing.T) {
	path := writeConfig(t, "roots:\n  - path: checks\n")
	reg, err := NewRegistry(Config{File: path})
	require.NoError(t, err)
	assert.Equal(t, "fallback", reg.TestsuiteName("fallback"))
}

func TestNewRegistryErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		errMsg   string
	}{
		{"no roots", "testsuite_name: x\n", "declares no roots"},
		{"missing path", "roots:\n  - name: x\n", "has no path"},
		{"bad yaml", "roots: [", "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry(Config{File: writeConfig(t, tt.contents)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := NewRegistry(Config{File: filepath.Join(t.TempDir(), "nope.yaml")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

func TestParseRootArg(t *testing.T) {
	root, err := ParseRootArg("checks/test_api.go:test_health")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(root.Path))
	assert.Equal(t, "test_health", root.Test)

	root, err = ParseRootArg("checks")
	require.NoError(t, err)
	assert.Empty(t, root.Test)

	for _, bad := range []string{"a:b:c", ":", "checks:", ""} {
		_, err := ParseRootArg(bad)
		assert.Error(t, err, "arg %q", bad)
	}
}
