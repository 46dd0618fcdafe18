package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sonnes/darpan/site"
)

// DefaultDebounce is the full-reload debounce interval. File watchers emit
// bursts of events for a single save; each trigger re-arms the timer and
// only the last one runs.
const DefaultDebounce = 500 * time.Millisecond

// Coordinator turns fire-and-forget reload triggers into pipeline
// invocations. Full reloads are debounced through a single re-armable
// timer; plugin reloads run immediately, one invocation per trigger.
// Failures of either kind are logged and never reach the trigger caller;
// the session keeps the previous artifact.
//
// Overlapping invocations are not serialized: each reads the current
// artifact when it starts and replaces it when it finishes, so the later
// completion wins.
type Coordinator struct {
	session  *Session
	openURL  OpenURL
	debounce time.Duration
	logger   *log.Logger
	notify   func(url string)

	mu    sync.Mutex
	timer *time.Timer
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDebounce overrides the full-reload debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) { c.debounce = d }
}

// WithLogger sets the reload failure/success sink.
func WithLogger(l *log.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithNotify sets the callback fired with the new open URL when a full
// reload changes the site's base path.
func WithNotify(fn func(url string)) Option {
	return func(c *Coordinator) { c.notify = fn }
}

// NewCoordinator wires a coordinator to a session.
func NewCoordinator(session *Session, openURL OpenURL, opts ...Option) *Coordinator {
	c := &Coordinator{
		session:  session,
		openURL:  openURL,
		debounce: DefaultDebounce,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reload schedules a debounced full reload. Each call re-arms the timer;
// the pipeline runs once the triggers go quiet for the debounce interval.
// Never blocks and never returns an error to the caller.
func (c *Coordinator) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.runReload)
}

// ReloadPlugin immediately schedules a reload of one plugin instance's
// contribution. Not debounced: each trigger is an independent invocation.
func (c *Coordinator) ReloadPlugin(id site.Identity) {
	go c.runPluginReload(id)
}

// Stop cancels any pending debounced reload. In-flight invocations run to
// completion.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) runReload() {
	reloadID := uuid.NewString()
	prev := c.session.Get()

	next, err := c.session.pipeline.Reload(context.Background(), prev)
	if err != nil {
		c.logger.Error("site reload failed", "reload_id", reloadID, "error", err)
		return
	}

	c.session.replace(next)
	c.logger.Debug("site reloaded", "reload_id", reloadID, "pages", len(next.Pages))

	if next.BaseURL() != prev.BaseURL() && c.notify != nil {
		c.notify(c.openURL.For(next))
	}
}

func (c *Coordinator) runPluginReload(id site.Identity) {
	reloadID := uuid.NewString()
	current := c.session.Get()

	next, err := c.session.pipeline.ReloadPlugin(context.Background(), current, id)
	if err != nil {
		c.logger.Error("plugin reload failed", "plugin", id.String(), "reload_id", reloadID, "error", err)
		return
	}

	c.session.replace(next)
	c.logger.Debug("plugin reloaded", "plugin", id.String(), "reload_id", reloadID)
}
