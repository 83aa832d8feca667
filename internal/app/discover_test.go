package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, rel string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("<Wix />\n"), 0644))
	return path
}

func TestDiscoverFilesWalk(t *testing.T) {
	dir := t.TempDir()
	product := touch(t, dir, "product.wxs")
	include := touch(t, dir, "fragments/ui.WXI")
	touch(t, dir, "bin/generated.wxs")
	touch(t, dir, ".cache/skip.wxs")
	touch(t, dir, "README.md")

	files, err := DiscoverFiles([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{include, product}, files)
}

func TestDiscoverFilesExplicitFileBypassesFilter(t *testing.T) {
	dir := t.TempDir()
	readme := touch(t, dir, "README.md")

	files, err := DiscoverFiles([]string{readme})
	require.NoError(t, err)
	assert.Equal(t, []string{readme}, files)
}

func TestDiscoverFilesDeduplicates(t *testing.T) {
	dir := t.TempDir()
	product := touch(t, dir, "product.wxs")

	files, err := DiscoverFiles([]string{dir, product})
	require.NoError(t, err)
	assert.Equal(t, []string{product}, files)
}

func TestDiscoverFilesMissingPath(t *testing.T) {
	_, err := DiscoverFiles([]string{filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}
