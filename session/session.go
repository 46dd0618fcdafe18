// Package session owns the current compiled site artifact and coordinates
// reloads against it. The session holds the single mutable reference; the
// coordinator serializes triggers, debounces full reloads, and isolates
// reload failures so the last-good artifact keeps serving.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/sonnes/darpan/site"
)

// Pipeline is the compilation entry points the session drives. site.Loader
// is the production implementation.
type Pipeline interface {
	// Load produces the initial artifact. Failure is fatal to startup.
	Load(ctx context.Context, params site.Params) (*site.Site, error)
	// Reload recompiles the whole site from disk. On failure the current
	// artifact must be left untouched.
	Reload(ctx context.Context, current *site.Site) (*site.Site, error)
	// ReloadPlugin recomputes one plugin instance's contribution.
	ReloadPlugin(ctx context.Context, current *site.Site, id site.Identity) (*site.Site, error)
}

// Session holds the current artifact. Reads never block on compilation:
// replacement is a single reference swap behind the lock, so readers always
// observe a fully-constructed artifact.
type Session struct {
	pipeline Pipeline

	mu      sync.RWMutex
	current *site.Site
}

// New runs the initial load and returns a session holding the first
// artifact. The load is synchronous; an error here means the process has
// nothing to serve and should abort startup.
func New(ctx context.Context, pipeline Pipeline, params site.Params) (*Session, error) {
	s, err := pipeline.Load(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("load site: %w", err)
	}
	return &Session{pipeline: pipeline, current: s}, nil
}

// Get returns the current artifact.
func (s *Session) Get() *site.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// replace swaps in a new artifact. Only the coordinator writes here.
func (s *Session) replace(next *site.Site) {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
}
