package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-harness/loader"
)

func writeFile(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func locations(units []*loader.Unit) []string {
	var locs []string
	for _, u := range units {
		locs = append(locs, u.Location())
	}
	return locs
}

func TestDiscoverDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "test_math.go", "package main\n\nfunc test_add() {}\n\nfunc test_sub() {}\n")
	writeFile(t, dir, filepath.Join("nested", "test_api.go"), "package main\n\nfunc TestPing() {}\n")
	// Matches the file convention but holds no test symbol.
	writeFile(t, dir, "test_empty.go", "package main\n\nfunc helper() {}\n")
	// Private-marker prefix: skipped without loading.
	writeFile(t, dir, "_test_private.go", "package main\n\nfunc test_hidden() {}\n")
	// Base name does not match the convention: never loaded.
	writeFile(t, dir, "helpers.go", "package main\n\nfunc test_ignored() {}\n")

	units, err := New(nil).Discover(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "nested", "test_api.go"),
		filepath.Join(dir, "test_math.go"),
	}, locations(units))
}

func TestDiscoverDirectoryIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "test_b.go", "package main\n\nfunc test_b() {}\n")
	writeFile(t, dir, "test_a.go", "package main\n\nfunc test_a() {}\n")

	d := New(nil)
	first, err := d.Discover(dir, "")
	require.NoError(t, err)
	second, err := d.Discover(dir, "")
	require.NoError(t, err)
	assert.Equal(t, locations(first), locations(second))
}

func TestDiscoverSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "checks.go", "package main\n\nfunc test_one() {}\n")

	// A file root is loaded regardless of its base name.
	units, err := New(nil).Discover(path, "")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, path, units[0].Location())

	// No qualifying symbol: dropped, not an error.
	empty := writeFile(t, dir, "plain.go", "package main\n\nfunc helper() {}\n")
	units, err = New(nil).Discover(empty, "")
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestDiscoverNamedTest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "test_math.go", "package main\n\nfunc test_add() {}\n")

	units, err := New(nil).Discover(path, "test_add")
	require.NoError(t, err)
	require.Len(t, units, 1)

	_, err = New(nil).Discover(path, "test_missing")
	var notFound *loader.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDiscoverMissingPath(t *testing.T) {
	_, err := New(nil).Discover(filepath.Join(t.TempDir(), "nope"), "")
	require.Error(t, err)
}

func TestDiscoverBrokenUnitIsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "test_ok.go", "package main\n\nfunc test_fine() {}\n")
	writeFile(t, dir, "test_broken.go", "package main\n\nfunc test_x() {\n")

	units, err := New(nil).Discover(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "test_ok.go")}, locations(units))
}
