// Package site compiles a directory of markdown into an immutable in-memory
// site artifact: rendered pages plus per-plugin contributions. Artifacts are
// replaced wholesale on reload, never mutated in place.
package site

import (
	"fmt"
	"sort"
	"time"
)

// Identity names one plugin instance.
type Identity struct {
	Name string
	ID   string
}

// String renders the identity the way it appears in logs, e.g.
// "search-index (default)".
func (id Identity) String() string {
	instance := id.ID
	if instance == "" {
		instance = "default"
	}
	return fmt.Sprintf("%s (%s)", id.Name, instance)
}

// Slug returns the identity as a path segment: the plugin name for the
// default instance, name-id otherwise. Keeps two instances of the same
// plugin from writing to the same contribution path.
func (id Identity) Slug() string {
	if id.ID == "" || id.ID == "default" {
		return id.Name
	}
	return id.Name + "-" + id.ID
}

// Page is one compiled markdown document.
type Page struct {
	// Route is the site-relative path the page is served at, e.g.
	// "/guide/setup". The root page has route "/".
	Route string
	Title string
	// HTML is the rendered body.
	HTML []byte
	// Source is the markdown path relative to the site root.
	Source  string
	ModTime time.Time
}

// Contribution is the output of one plugin instance: generated files served
// under the site's data path, keyed by path relative to it.
type Contribution struct {
	Files map[string][]byte
}

// Site is the compiled artifact. It is immutable once built; a reload
// produces a fresh Site that replaces the old one by reference.
type Site struct {
	// Dir is the source directory the site was compiled from.
	Dir    string
	Config Config
	// Pages maps route to compiled page.
	Pages map[string]*Page
	// Contribs maps plugin identity to that instance's output.
	Contribs map[Identity]Contribution
	LoadedAt time.Time
}

// BaseURL returns the path prefix the site is served under.
func (s *Site) BaseURL() string { return s.Config.Base }

// Router returns the navigation mode.
func (s *Site) Router() RouterMode { return s.Config.Router }

// Page looks up a compiled page by route.
func (s *Site) Page(route string) (*Page, bool) {
	p, ok := s.Pages[route]
	return p, ok
}

// Routes returns all page routes in sorted order.
func (s *Site) Routes() []string {
	routes := make([]string, 0, len(s.Pages))
	for r := range s.Pages {
		routes = append(routes, r)
	}
	sort.Strings(routes)
	return routes
}

// DataFile looks up a plugin-contributed file by its path relative to the
// site's data prefix, e.g. "search-index/index.json".
func (s *Site) DataFile(path string) ([]byte, bool) {
	for _, c := range s.Contribs {
		if data, ok := c.Files[path]; ok {
			return data, true
		}
	}
	return nil, false
}

// pluginSpec finds the configured spec for an identity.
func (s *Site) pluginSpec(id Identity) (PluginSpec, bool) {
	for _, p := range s.Config.Plugins {
		if p.Identity() == id {
			return p, true
		}
	}
	return PluginSpec{}, false
}
