package site

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
)

// Params identifies the inputs for an initial site load.
type Params struct {
	// Dir is the site root: darpan.yml plus markdown content.
	Dir string
}

// Loader compiles site directories into Site artifacts. A Loader is
// stateless between calls and safe for concurrent use.
type Loader struct {
	registry *Registry
}

// NewLoader creates a Loader. A nil registry gets the built-in plugins.
func NewLoader(registry *Registry) *Loader {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Loader{registry: registry}
}

// Load compiles the site from scratch: config, pages, then every configured
// plugin contribution.
func (l *Loader) Load(ctx context.Context, params Params) (*Site, error) {
	cfg, err := ReadConfig(params.Dir)
	if err != nil {
		return nil, err
	}

	pages, err := compilePages(ctx, params.Dir, cfg)
	if err != nil {
		return nil, err
	}

	s := &Site{
		Dir:      params.Dir,
		Config:   cfg,
		Pages:    pages,
		Contribs: make(map[Identity]Contribution, len(cfg.Plugins)),
		LoadedAt: time.Now(),
	}

	for _, spec := range cfg.Plugins {
		plugin, err := l.registry.New(spec)
		if err != nil {
			return nil, err
		}
		contrib, err := plugin.Contribute(ctx, s)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", spec.Identity(), err)
		}
		s.Contribs[spec.Identity()] = contrib
	}

	return s, nil
}

// Reload recompiles the whole site from the current artifact's source
// directory, re-reading the configuration as well.
func (l *Loader) Reload(ctx context.Context, current *Site) (*Site, error) {
	return l.Load(ctx, Params{Dir: current.Dir})
}

// ReloadPlugin recomputes exactly one plugin instance's contribution against
// the current artifact. Pages and all other contributions are shared with
// the current artifact, which stays untouched.
func (l *Loader) ReloadPlugin(ctx context.Context, current *Site, id Identity) (*Site, error) {
	spec, ok := current.pluginSpec(id)
	if !ok {
		return nil, fmt.Errorf("plugin %s is not configured", id)
	}
	plugin, err := l.registry.New(spec)
	if err != nil {
		return nil, err
	}
	contrib, err := plugin.Contribute(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("plugin %s: %w", id, err)
	}

	next := &Site{
		Dir:      current.Dir,
		Config:   current.Config,
		Pages:    current.Pages,
		Contribs: make(map[Identity]Contribution, len(current.Contribs)),
		LoadedAt: time.Now(),
	}
	for k, v := range current.Contribs {
		next.Contribs[k] = v
	}
	next.Contribs[id] = contrib
	return next, nil
}

// compilePages walks dir and renders every markdown file. Hidden and
// underscore-prefixed directories are skipped.
func compilePages(ctx context.Context, dir string, cfg Config) (map[string]*Page, error) {
	md := newMarkdown(cfg.Theme)
	pages := make(map[string]*Page)

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != dir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, ".md") {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		page, err := compilePage(md, dir, rel)
		if err != nil {
			return fmt.Errorf("compile %s: %w", rel, err)
		}
		pages[page.Route] = page
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func compilePage(md goldmark.Markdown, dir, rel string) (*Page, error) {
	source, err := os.ReadFile(filepath.Join(dir, rel))
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(filepath.Join(dir, rel))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := md.Convert(source, &buf); err != nil {
		return nil, err
	}

	return &Page{
		Route:   routeFor(rel),
		Title:   pageTitle(source, rel),
		HTML:    buf.Bytes(),
		Source:  rel,
		ModTime: info.ModTime(),
	}, nil
}

// newMarkdown builds the goldmark pipeline: GFM plus chroma syntax
// highlighting with inline styles, raw HTML allowed.
func newMarkdown(theme string) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(theme),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false),
				),
			),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
}

// routeFor maps a markdown path to its route: "index.md" → "/",
// "guide/setup.md" → "/guide/setup".
func routeFor(rel string) string {
	r := filepath.ToSlash(strings.TrimSuffix(rel, ".md"))
	if r == "index" {
		return "/"
	}
	r = strings.TrimSuffix(r, "/index")
	return "/" + r
}

// pageTitle extracts the first level-one heading, falling back to the
// file name.
func pageTitle(source []byte, rel string) string {
	for _, line := range strings.Split(string(source), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	base := filepath.Base(rel)
	return strings.TrimSuffix(base, ".md")
}
