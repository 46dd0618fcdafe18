package server

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/sonnes/darpan/session"
	"github.com/sonnes/darpan/site"
)

// Watcher watches the site root recursively and turns file-system events
// into coordinator triggers: changes under a plugin's declared directory
// become a reload of just that plugin, everything else relevant becomes a
// debounced full reload.
type Watcher struct {
	dir         string
	session     *session.Session
	coordinator *session.Coordinator
	logger      *log.Logger
	fsw         *fsnotify.Watcher
}

// NewWatcher creates a watcher over the site root.
func NewWatcher(dir string, sess *session.Session, coord *session.Coordinator, logger *log.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		dir:         dir,
		session:     sess,
		coordinator: coord,
		logger:      logger,
		fsw:         fsw,
	}, nil
}

// Start registers the directory tree and begins dispatching events until
// ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.dir); err != nil {
		return err
	}

	go w.loop(ctx)
	return nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.dispatch(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) dispatch(ev fsnotify.Event) {
	if ev.Op.Has(fsnotify.Create) {
		// New directories must be registered; fsnotify is not recursive.
		if err := w.addTree(ev.Name); err != nil {
			w.logger.Debug("watch new path", "path", ev.Name, "error", err)
		}
	}

	name := filepath.Base(ev.Name)
	if strings.HasPrefix(name, ".") {
		return
	}

	if id, ok := w.pluginFor(ev.Name); ok {
		w.logger.Debug("plugin change", "plugin", id.String(), "path", ev.Name)
		w.coordinator.ReloadPlugin(id)
		return
	}

	if !relevant(name) {
		return
	}
	w.logger.Debug("site change", "path", ev.Name, "op", ev.Op.String())
	w.coordinator.Reload()
}

// pluginFor maps a changed path to the plugin instance whose declared
// directory contains it, using the current artifact's configuration so
// config edits take effect after the next full reload.
func (w *Watcher) pluginFor(path string) (site.Identity, bool) {
	cfg := w.session.Get().Config
	for _, spec := range cfg.Plugins {
		if spec.Dir == "" {
			continue
		}
		dir := filepath.Join(w.dir, spec.Dir)
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return spec.Identity(), true
		}
	}
	return site.Identity{}, false
}

// relevant reports whether a file participates in site compilation.
func relevant(name string) bool {
	return strings.HasSuffix(name, ".md") || name == site.ConfigFile
}

// addTree registers path and, if it is a directory, every subdirectory
// below it, skipping hidden and underscore-prefixed ones.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// The path may be gone already; deletes race the walk.
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if p != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
}
