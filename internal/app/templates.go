package app

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"portfolio/internal/content"
	"portfolio/internal/i18n"
	"portfolio/internal/seo"
)

// templateFS contains the HTML templates bundled with the binary.
//
//go:embed templates/*
var templateFS embed.FS

// staticFS contains the stylesheet, icons and social images.
//
//go:embed static
var staticFS embed.FS

var pageTemplates = []string{
	"home", "about", "services", "service", "projects", "project", "blog", "post", "contact", "notfound",
}

// parseTemplates parses the shared layout once per page so that every page
// can define its own "content" block.
func parseTemplates() (map[string]*template.Template, error) {
	base, err := template.New("layout").Funcs(template.FuncMap{
		"date": func(t time.Time) string { return t.Format(content.DateLayout) },
		"title": content.SlugTitle,
	}).ParseFS(templateFS, "templates/layout.gohtml")
	if err != nil {
		return nil, err
	}

	out := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		tmpl, err := clone.ParseFS(templateFS, "templates/"+name+".gohtml")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		out[name] = tmpl
	}
	return out, nil
}

// pageData is what every template receives.
type pageData struct {
	Meta        seo.Metadata
	JSONLD      []template.JS
	Locale      i18n.Locale
	Path        string
	SiteName    string
	Contact     content.Contact
	AnalyticsID string
	Year        int
	Body        any
}

// T returns the interface string key in the page locale.
func (p pageData) T(key string) string { return label(p.Locale, key) }

// Href returns path under the page locale.
func (p pageData) Href(path string) string { return i18n.Path(p.Locale, path) }

// SwitchHref returns the current page in the other locale.
func (p pageData) SwitchHref() string { return i18n.Path(p.Locale.Other(), p.Path) }

// Other returns the other locale.
func (p pageData) Other() i18n.Locale { return p.Locale.Other() }

// newPage builds the metadata and JSON-LD blocks shared by every page.
func (s *Server) newPage(l i18n.Locale, c *content.Site, in seo.Input, body any, jsonld ...any) (pageData, error) {
	site := s.seoSite(c)
	data := pageData{
		Meta:        site.Build(l, in),
		Locale:      l,
		Path:        in.Path,
		SiteName:    s.cfg.SiteName,
		Contact:     c.Contact,
		AnalyticsID: s.cfg.AnalyticsID,
		Year:        s.now().Year(),
		Body:        body,
	}
	for _, v := range jsonld {
		script, err := seo.Script(v)
		if err != nil {
			return data, err
		}
		data.JSONLD = append(data.JSONLD, script)
	}
	return data, nil
}

// render executes page into a buffer first so a template failure still
// produces a clean 500.
func (s *Server) render(w http.ResponseWriter, status int, page string, data pageData) {
	tmpl, ok := s.templates[page]
	if !ok {
		s.logger.Error("unknown template", zap.String("template", page))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("render page", zap.String("template", page), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Debug("write page", zap.String("template", page), zap.Error(err))
	}
}

// titled appends the owner name to every locale of t.
func titled(t i18n.Text, name i18n.Text) i18n.Text {
	return i18n.Text{EN: t.In(i18n.English) + " | " + name.In(i18n.English), AR: t.In(i18n.Arabic) + " | " + name.In(i18n.Arabic)}
}

func labelText(key string) i18n.Text {
	return i18n.Text{EN: label(i18n.English, key), AR: label(i18n.Arabic, key)}
}

func keywords(tags []string, focus i18n.Text) i18n.Texts {
	out := i18n.Texts{}
	for _, l := range i18n.Supported {
		words := append([]string{}, tags...)
		if f := focus.In(l); f != "" {
			words = append(words, f)
		}
		if l == i18n.Arabic {
			out.AR = words
		} else {
			out.EN = words
		}
	}
	return out
}
