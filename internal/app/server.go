package app

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"net/http"
	"slices"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"portfolio/internal/canon"
	"portfolio/internal/content"
	"portfolio/internal/i18n"
	"portfolio/internal/seo"
)

// Server wires handlers, templates, content and the inquiry store together.
type Server struct {
	cfg       Config
	content   *content.Store
	inquiries *InquiryStore
	logger    *zap.Logger
	rules     canon.Rules
	matcher   *i18n.Matcher
	templates map[string]*template.Template
	static    fs.FS
	pages     *http.ServeMux
	files     *http.ServeMux
	handler   http.Handler
	now       func() time.Time

	sitemapGroup singleflight.Group
	sitemap      atomic.Pointer[renderedSitemap]
}

type renderedSitemap struct {
	site *content.Site
	body []byte
}

// NewServer constructs an HTTP handler serving the site in store. inquiries
// may be nil, in which case the contact form answers 503.
func NewServer(cfg Config, store *content.Store, inquiries *InquiryStore, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	srv := &Server{
		cfg:       cfg,
		content:   store,
		inquiries: inquiries,
		logger:    logger,
		rules:     canon.DefaultRules(cfg.DefaultLocale, slices.Collect(maps.Keys(cfg.VerificationFiles))...),
		templates: tmpl,
		static:    static,
		pages:     http.NewServeMux(),
		files:     http.NewServeMux(),
		now:       time.Now,
	}
	if cfg.NegotiateLocale {
		srv.matcher = i18n.NewMatcher(cfg.DefaultLocale)
	}
	store.OnReplace(srv.contentReplaced)

	srv.pages.HandleFunc("GET /{locale}", srv.handleHome)
	srv.pages.HandleFunc("GET /{locale}/about", srv.handleAbout)
	srv.pages.HandleFunc("GET /{locale}/services", srv.handleServices)
	srv.pages.HandleFunc("GET /{locale}/services/{slug}", srv.handleService)
	srv.pages.HandleFunc("GET /{locale}/projects", srv.handleProjects)
	srv.pages.HandleFunc("GET /{locale}/projects/{slug}", srv.handleProject)
	srv.pages.HandleFunc("GET /{locale}/blog", srv.handleBlog)
	srv.pages.HandleFunc("GET /{locale}/blog/{slug}", srv.handlePost)
	srv.pages.HandleFunc("GET /{locale}/contact", srv.handleContact)
	srv.pages.HandleFunc("POST /{locale}/contact", srv.handleContactSubmit)
	srv.pages.HandleFunc("/", srv.notFound)

	srv.files.HandleFunc("GET /sitemap.xml", srv.handleSitemap)
	srv.files.HandleFunc("GET /robots.txt", srv.handleRobots)
	srv.files.HandleFunc("GET /llms.txt", srv.handleLLMs)
	srv.files.HandleFunc("/", srv.handleFile)

	srv.handler = srv.recoverPanics(srv.logRequests(srv.secureHeaders(srv.canonical(http.HandlerFunc(srv.dispatch)))))
	return srv, nil
}

// ServeHTTP satisfies http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// dispatch routes root files and assets away from the locale-aware pages.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	switch resultFrom(r.Context()).Kind {
	case canon.SEOFile, canon.Asset:
		s.files.ServeHTTP(w, r)
	default:
		s.pages.ServeHTTP(w, r)
	}
}

// SEO returns the URL builder for the content currently served.
func (s *Server) SEO() seo.Site {
	return s.seoSite(s.content.Site())
}

func (s *Server) seoSite(c *content.Site) seo.Site {
	return seo.Site{
		Origin:        s.cfg.Origin,
		Name:          s.cfg.SiteName,
		Description:   c.Profile.Hero.Subtitle,
		DefaultLocale: s.cfg.DefaultLocale,
	}
}

// SitemapEntries lists the sitemap of the content currently served.
func (s *Server) SitemapEntries() []seo.Entry {
	c := s.content.Site()
	return s.seoSite(c).Sitemap(c, s.cfg.LastMod)
}

// StaticFiles lists the root-relative paths of the bundled static files.
func (s *Server) StaticFiles() ([]string, error) {
	var files []string
	err := fs.WalkDir(s.static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, "/"+path)
		}
		return nil
	})
	return files, err
}

// RootFiles lists the generated root files and the configured verification
// files, sorted.
func (s *Server) RootFiles() []string {
	files := []string{"/llms.txt", "/robots.txt", "/sitemap.xml"}
	files = append(files, slices.Sorted(maps.Keys(s.cfg.VerificationFiles))...)
	return files
}

// contentReplaced drops the rendered sitemap after a content reload.
func (s *Server) contentReplaced(c *content.Site) {
	s.sitemap.Store(nil)
	s.logger.Info("content replaced, sitemap cache dropped",
		zap.Int("sitemap_urls", len(s.seoSite(c).Sitemap(c, s.cfg.LastMod))))
}

// sitemapXML renders the sitemap once per content set. Concurrent requests
// share a single rendering. A rendering still in flight when the content is
// replaced is not served for the new content.
func (s *Server) sitemapXML() ([]byte, error) {
	c := s.content.Site()
	if cached := s.sitemap.Load(); cached != nil && cached.site == c {
		return cached.body, nil
	}
	result, err, _ := s.sitemapGroup.Do(fmt.Sprintf("sitemap-%p", c), func() (interface{}, error) {
		var buf bytes.Buffer
		if err := seo.WriteXML(&buf, s.seoSite(c).Sitemap(c, s.cfg.LastMod)); err != nil {
			return nil, err
		}
		body := buf.Bytes()
		s.sitemap.Store(&renderedSitemap{site: c, body: body})
		s.logger.Debug("sitemap rendered", zap.Int("bytes", len(body)))
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	body, _ := result.([]byte)
	return body, nil
}
