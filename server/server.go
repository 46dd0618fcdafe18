// Package server is the dev-server transport: host/port negotiation, an
// HTTP handler that serves whatever artifact the session currently holds,
// and the file watcher that drives reloads.
package server

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sonnes/darpan/session"
)

// DataPrefix is the path segment under the site base where plugin
// contributions are served, e.g. /docs/_darpan/search-index/index.json.
const DataPrefix = "_darpan/"

// Server serves the session's current artifact. Every request takes a
// fresh snapshot, so a completed reload is visible on the next request
// with no coordination.
type Server struct {
	session *session.Session
	logger  *log.Logger
}

// New creates a Server. A nil logger uses the package default.
func New(sess *session.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{session: sess, logger: logger}
}

// Handler returns the HTTP handler for the dev server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handle)
	return mux
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	snapshot := s.session.Get()
	base := snapshot.BaseURL()

	p := r.URL.Path
	if !strings.HasPrefix(p, base) {
		// Requests at the bare root get pointed at the base path.
		if p == "/" || p+"/" == base {
			http.Redirect(w, r, base, http.StatusTemporaryRedirect)
			return
		}
		http.NotFound(w, r)
		return
	}

	rel := strings.TrimPrefix(p, base)

	if strings.HasPrefix(rel, DataPrefix) {
		data, ok := snapshot.DataFile(strings.TrimPrefix(rel, DataPrefix))
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentType(rel))
		if _, err := w.Write(data); err != nil {
			s.logger.Debug("write data file", "path", p, "error", err)
		}
		return
	}

	route := "/" + strings.TrimSuffix(rel, "/")

	page, ok := snapshot.Page(route)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := WritePage(w, snapshot.Config.Title, page); err != nil {
		s.logger.Error("render page", "route", route, "error", err)
	}
}

func contentType(p string) string {
	switch {
	case strings.HasSuffix(p, ".json"):
		return "application/json; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
