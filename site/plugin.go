package site

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"
)

// Plugin computes one instance's contribution from the compiled pages.
// Contribute must not mutate the site it is given.
type Plugin interface {
	Contribute(ctx context.Context, s *Site) (Contribution, error)
}

// Factory builds a plugin instance from its configuration entry.
type Factory func(spec PluginSpec) (Plugin, error)

// Registry maps plugin names to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry with the built-in plugins registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("search-index", func(spec PluginSpec) (Plugin, error) {
		return &searchIndexPlugin{spec: spec}, nil
	})
	r.Register("last-updated", func(spec PluginSpec) (Plugin, error) {
		return &lastUpdatedPlugin{spec: spec}, nil
	})
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// New instantiates the plugin declared by spec.
func (r *Registry) New(spec PluginSpec) (Plugin, error) {
	f, ok := r.factories[spec.Name]
	if !ok {
		return nil, fmt.Errorf("unknown plugin %q", spec.Name)
	}
	return f(spec)
}

// searchIndexPlugin emits a JSON index of all pages for client-side search.
type searchIndexPlugin struct {
	spec PluginSpec
}

type searchEntry struct {
	Route string `json:"route"`
	Title string `json:"title"`
}

func (p *searchIndexPlugin) Contribute(ctx context.Context, s *Site) (Contribution, error) {
	entries := make([]searchEntry, 0, len(s.Pages))
	for _, route := range s.Routes() {
		entries = append(entries, searchEntry{Route: route, Title: s.Pages[route].Title})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return Contribution{}, err
	}
	return Contribution{Files: map[string][]byte{
		path.Join(p.spec.Identity().Slug(), "index.json"): data,
	}}, nil
}

// lastUpdatedPlugin emits per-route source modification times.
type lastUpdatedPlugin struct {
	spec PluginSpec
}

func (p *lastUpdatedPlugin) Contribute(ctx context.Context, s *Site) (Contribution, error) {
	updated := make(map[string]string, len(s.Pages))
	for route, page := range s.Pages {
		updated[route] = page.ModTime.UTC().Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		return Contribution{}, err
	}
	return Contribution{Files: map[string][]byte{
		path.Join(p.spec.Identity().Slug(), "last-updated.json"): data,
	}}, nil
}
