// Package export renders the site into a directory of static files.
package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolio/internal/seo"
)

// NotFoundPath is requested to render the not-found page.
const NotFoundPath = "/404"

// Site is the server being exported.
type Site interface {
	http.Handler
	SEO() seo.Site
	SitemapEntries() []seo.Entry
	StaticFiles() ([]string, error)
	RootFiles() []string
}

// Options control an export.
type Options struct {
	OutDir string
	// Concurrency bounds the number of routes rendered at once. Zero uses
	// GOMAXPROCS.
	Concurrency int
	Logger      *zap.Logger
}

// Result summarizes a finished export.
type Result struct {
	Pages int
	Files int
	Bytes int64
}

// Route is one path to render and the file it is written to, relative to
// the output directory.
type Route struct {
	Path   string
	File   string
	Status int
	page   bool
}

// Routes lists everything an export writes: each sitemap page, the
// not-found page, the root files and the static files.
func Routes(site Site) ([]Route, error) {
	paths, err := PagePaths(site)
	if err != nil {
		return nil, err
	}
	routes := make([]Route, 0, len(paths)+8)
	for _, p := range paths {
		routes = append(routes, Route{Path: p, File: pageFile(p), Status: http.StatusOK, page: true})
	}
	routes = append(routes, Route{Path: NotFoundPath, File: "404.html", Status: http.StatusNotFound, page: true})

	static, err := site.StaticFiles()
	if err != nil {
		return nil, fmt.Errorf("list static files: %w", err)
	}
	for _, p := range append(site.RootFiles(), static...) {
		routes = append(routes, Route{Path: p, File: strings.TrimPrefix(p, "/"), Status: http.StatusOK})
	}
	return routes, nil
}

// PagePaths returns the path of every sitemap entry.
func PagePaths(site Site) ([]string, error) {
	s := site.SEO()
	entries := site.SitemapEntries()
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		p, err := s.Relative(e.Loc)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// pageFile maps /en/about to en/about/index.html.
func pageFile(p string) string {
	return strings.TrimPrefix(p, "/") + "/index.html"
}

// Run renders every route of site into opts.OutDir. Any route answering
// with an unexpected status fails the export.
func Run(ctx context.Context, site Site, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.OutDir == "" {
		return Result{}, fmt.Errorf("export: no output directory")
	}
	routes, err := Routes(site)
	if err != nil {
		return Result{}, err
	}

	var (
		mu  sync.Mutex
		res Result
	)
	err = Fetch(ctx, site, routes, opts.Concurrency, func(r Route, body []byte) error {
		dst := filepath.Join(opts.OutDir, filepath.FromSlash(r.File))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, body, 0o644); err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		if r.page {
			res.Pages++
		} else {
			res.Files++
		}
		res.Bytes += int64(len(body))
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	logger.Info("export: done", zap.String("dir", opts.OutDir),
		zap.Int("pages", res.Pages), zap.Int("files", res.Files), zap.Int64("bytes", res.Bytes))
	return res, nil
}

// Render returns the HTML of every sitemap page keyed by path.
func Render(ctx context.Context, site Site, concurrency int) (map[string][]byte, error) {
	paths, err := PagePaths(site)
	if err != nil {
		return nil, err
	}
	routes := make([]Route, len(paths))
	for i, p := range paths {
		routes[i] = Route{Path: p, File: pageFile(p), Status: http.StatusOK, page: true}
	}

	var mu sync.Mutex
	pages := make(map[string][]byte, len(routes))
	err = Fetch(ctx, site, routes, concurrency, func(r Route, body []byte) error {
		mu.Lock()
		defer mu.Unlock()
		pages[r.Path] = body
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

// Fetch requests every route from h with at most limit requests in flight
// and hands each body to fn. fn may be called concurrently.
func Fetch(ctx context.Context, h http.Handler, routes []Route, limit int, fn func(Route, []byte) error) error {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, r := range routes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			body, err := fetch(gctx, h, r)
			if err != nil {
				return err
			}
			return fn(r, body)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func fetch(ctx context.Context, h http.Handler, r Route) ([]byte, error) {
	req := httptest.NewRequestWithContext(ctx, http.MethodGet, r.Path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	defer res.Body.Close()
	if res.StatusCode != r.Status {
		if loc := res.Header.Get("Location"); loc != "" {
			return nil, fmt.Errorf("export %s: status %d redirecting to %s", r.Path, res.StatusCode, loc)
		}
		return nil, fmt.Errorf("export %s: status %d, want %d", r.Path, res.StatusCode, r.Status)
	}
	return io.ReadAll(res.Body)
}
