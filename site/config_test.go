package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0o644))
	return dir
}

func TestReadConfigMissingFile(t *testing.T) {
	cfg, err := ReadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "/", cfg.Base)
	assert.Equal(t, RouterBrowser, cfg.Router)
	assert.Equal(t, "dracula", cfg.Theme)
}

func TestReadConfigNormalizesBase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"docs", "/docs/"},
		{"/docs", "/docs/"},
		{"docs/", "/docs/"},
		{"/docs/", "/docs/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeBase(tt.in), "base %q", tt.in)
	}
}

func TestReadConfigFull(t *testing.T) {
	dir := writeConfig(t, `
title: Docs
base: docs
router: hash
plugins:
  - name: search-index
  - name: search-index
    id: api
    dir: api
`)
	cfg, err := ReadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "Docs", cfg.Title)
	assert.Equal(t, "/docs/", cfg.Base)
	assert.Equal(t, RouterHash, cfg.Router)
	require.Len(t, cfg.Plugins, 2)
	assert.Equal(t, Identity{Name: "search-index", ID: "default"}, cfg.Plugins[0].Identity())
	assert.Equal(t, Identity{Name: "search-index", ID: "api"}, cfg.Plugins[1].Identity())
}

func TestReadConfigBadRouter(t *testing.T) {
	dir := writeConfig(t, "router: spa\n")
	_, err := ReadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "router mode")
}

func TestReadConfigDuplicatePlugin(t *testing.T) {
	dir := writeConfig(t, `
plugins:
  - name: search-index
  - name: search-index
`)
	_, err := ReadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate plugin")
}

func TestReadConfigBadYAML(t *testing.T) {
	dir := writeConfig(t, "title: [unclosed\n")
	_, err := ReadConfig(dir)
	require.Error(t, err)
}

func TestIdentityString(t *testing.T) {
	assert.Equal(t, "theme-x (default)", Identity{Name: "theme-x", ID: "default"}.String())
	assert.Equal(t, "theme-x (default)", Identity{Name: "theme-x"}.String())
	assert.Equal(t, "search-index (api)", Identity{Name: "search-index", ID: "api"}.String())
}

func TestIdentitySlug(t *testing.T) {
	assert.Equal(t, "search-index", Identity{Name: "search-index", ID: "default"}.Slug())
	assert.Equal(t, "search-index-api", Identity{Name: "search-index", ID: "api"}.Slug())
}
