package site

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"darpan.yml":     "title: Docs\nbase: /docs/\n",
		"index.md":       "# Home\n\nwelcome home\n",
		"guide/setup.md": "# Setup Guide\n\nsome `code` here\n",
		"_drafts/wip.md": "# Draft\n",
		".hidden/x.md":   "# Hidden\n",
	})

	s, err := NewLoader(nil).Load(context.Background(), Params{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/guide/setup"}, s.Routes())
	assert.Equal(t, "/docs/", s.BaseURL())
	assert.Equal(t, RouterBrowser, s.Router())

	home, ok := s.Page("/")
	require.True(t, ok)
	assert.Equal(t, "Home", home.Title)
	assert.Contains(t, string(home.HTML), "welcome home")

	guide, ok := s.Page("/guide/setup")
	require.True(t, ok)
	assert.Equal(t, "Setup Guide", guide.Title)
	assert.Contains(t, string(guide.HTML), "<code>")
}

func TestLoadNestedIndex(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"guide/index.md": "# Guide\n",
	})

	s, err := NewLoader(nil).Load(context.Background(), Params{Dir: dir})
	require.NoError(t, err)

	_, ok := s.Page("/guide")
	assert.True(t, ok)
}

func TestLoadTitleFallsBackToFileName(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"notes.md": "no heading here\n",
	})

	s, err := NewLoader(nil).Load(context.Background(), Params{Dir: dir})
	require.NoError(t, err)

	page, ok := s.Page("/notes")
	require.True(t, ok)
	assert.Equal(t, "notes", page.Title)
}

func TestReloadPicksUpNewFiles(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.md": "# Home\n",
	})
	loader := NewLoader(nil)

	s, err := loader.Load(context.Background(), Params{Dir: dir})
	require.NoError(t, err)
	require.Len(t, s.Pages, 1)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "about.md"), []byte("# About\n"), 0o644))

	next, err := loader.Reload(context.Background(), s)
	require.NoError(t, err)
	assert.Len(t, next.Pages, 2)
	assert.Len(t, s.Pages, 1, "previous artifact must stay untouched")
}

func TestLoadRunsPlugins(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"darpan.yml": "plugins:\n  - name: search-index\n  - name: last-updated\n",
		"index.md":   "# Home\n",
	})

	s, err := NewLoader(nil).Load(context.Background(), Params{Dir: dir})
	require.NoError(t, err)
	require.Len(t, s.Contribs, 2)

	index, ok := s.DataFile("search-index/index.json")
	require.True(t, ok)
	assert.Contains(t, string(index), `"route": "/"`)
	assert.Contains(t, string(index), `"title": "Home"`)

	_, ok = s.DataFile("last-updated/last-updated.json")
	assert.True(t, ok)
}

func TestLoadUnknownPlugin(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"darpan.yml": "plugins:\n  - name: nope\n",
		"index.md":   "# Home\n",
	})

	_, err := NewLoader(nil).Load(context.Background(), Params{Dir: dir})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown plugin "nope"`)
}

func TestReloadPlugin(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"darpan.yml": "plugins:\n  - name: search-index\n  - name: last-updated\n",
		"index.md":   "# Home\n",
	})
	loader := NewLoader(nil)

	s, err := loader.Load(context.Background(), Params{Dir: dir})
	require.NoError(t, err)

	id := Identity{Name: "search-index", ID: "default"}
	next, err := loader.ReloadPlugin(context.Background(), s, id)
	require.NoError(t, err)

	// Pages are shared, contributions are copied with one slot replaced.
	assert.Equal(t, len(s.Pages), len(next.Pages))
	require.Len(t, next.Contribs, 2)
	assert.Equal(t, s.Contribs[Identity{Name: "last-updated", ID: "default"}],
		next.Contribs[Identity{Name: "last-updated", ID: "default"}])
	assert.True(t, next.LoadedAt.After(s.LoadedAt) || next.LoadedAt.Equal(s.LoadedAt))
}

func TestReloadPluginUnknownIdentity(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.md": "# Home\n",
	})
	loader := NewLoader(nil)

	s, err := loader.Load(context.Background(), Params{Dir: dir})
	require.NoError(t, err)

	_, err = loader.ReloadPlugin(context.Background(), s, Identity{Name: "theme-x", ID: "default"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme-x (default)")
	assert.Contains(t, err.Error(), "not configured")
}
