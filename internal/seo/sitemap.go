package seo

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"portfolio/internal/content"
	"portfolio/internal/i18n"
)

// DefaultLastMod is the lastmod of entries without a date of their own.
var DefaultLastMod = time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

// StaticPaths are the section pages listed for every locale. The bare root
// is never listed; it only redirects.
var StaticPaths = []string{"/", "/about", "/projects", "/services", "/blog", "/contact"}

// Entry is one sitemap URL.
type Entry struct {
	Loc        string
	LastMod    time.Time
	Alternates []Alternate
}

// Sitemap lists every indexable URL of c: the static sections of each locale
// in turn, then projects, services and blog posts, each in every supported
// locale. A zero lastmod means DefaultLastMod. Posts carry their own date.
func (s Site) Sitemap(c *content.Site, lastmod time.Time) []Entry {
	if lastmod.IsZero() {
		lastmod = DefaultLastMod
	}
	var (
		out  []Entry
		seen = map[string]bool{}
	)
	add := func(l i18n.Locale, path string, mod time.Time) {
		loc := s.URL(l, path)
		if seen[loc] {
			return
		}
		seen[loc] = true
		out = append(out, Entry{Loc: loc, LastMod: mod, Alternates: s.Alternates(path)})
	}
	push := func(path string, mod time.Time) {
		for _, l := range i18n.Supported {
			add(l, path, mod)
		}
	}

	for _, l := range i18n.Supported {
		for _, p := range StaticPaths {
			add(l, p, lastmod)
		}
	}
	for _, p := range c.Projects {
		push("/projects/"+url.PathEscape(p.Slug), lastmod)
	}
	for _, svc := range c.Services {
		push("/services/"+url.PathEscape(svc.Slug), lastmod)
	}
	for _, post := range c.Posts {
		mod := post.Published()
		if mod.IsZero() {
			mod = lastmod
		}
		push("/blog/"+url.PathEscape(post.Slug), mod)
	}
	return out
}

const (
	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	xhtmlNS   = "http://www.w3.org/1999/xhtml"
)

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	XHTML   string   `xml:"xmlns:xhtml,attr"`
	URLs    []xmlURL `xml:"url"`
}

type xmlURL struct {
	Loc     string    `xml:"loc"`
	LastMod string    `xml:"lastmod,omitempty"`
	Links   []xmlLink `xml:"xhtml:link"`
}

type xmlLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// WriteXML writes entries as a sitemaps.org urlset with xhtml:link alternates.
func WriteXML(w io.Writer, entries []Entry) error {
	set := urlset{Xmlns: sitemapNS, XHTML: xhtmlNS, URLs: make([]xmlURL, len(entries))}
	for i, e := range entries {
		u := xmlURL{Loc: e.Loc}
		if !e.LastMod.IsZero() {
			u.LastMod = e.LastMod.UTC().Format(content.DateLayout)
		}
		for _, a := range e.Alternates {
			u.Links = append(u.Links, xmlLink{Rel: "alternate", Hreflang: a.Hreflang, Href: a.Href})
		}
		set.URLs[i] = u
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ParseLocs reads the <loc> values back out of a sitemap document.
func ParseLocs(r io.Reader) ([]string, error) {
	var doc struct {
		URLs []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode sitemap: %w", err)
	}
	locs := make([]string, len(doc.URLs))
	for i, u := range doc.URLs {
		locs[i] = u.Loc
	}
	return locs, nil
}

// CheckSitemap reports duplicate URLs and URLs that are not absolute URLs on
// this site's origin. The bare origin itself is rejected.
func (s Site) CheckSitemap(locs []string) error {
	var errs []error
	seen := make(map[string]bool, len(locs))
	for _, loc := range locs {
		if seen[loc] {
			errs = append(errs, fmt.Errorf("sitemap: duplicate url %s", loc))
		}
		seen[loc] = true

		u, err := url.Parse(loc)
		if err != nil || !u.IsAbs() || u.Host == "" {
			errs = append(errs, fmt.Errorf("sitemap: url %q is not absolute", loc))
			continue
		}
		path, err := s.Relative(loc)
		if err != nil {
			errs = append(errs, fmt.Errorf("sitemap: %w", err))
			continue
		}
		if path == "/" {
			errs = append(errs, errors.New("sitemap: lists the bare root "+loc))
		}
		if u.RawQuery != "" {
			errs = append(errs, fmt.Errorf("sitemap: url %s carries a query", loc))
		}
	}
	return errors.Join(errs...)
}

// Locs returns the Loc of every entry.
func Locs(entries []Entry) []string {
	locs := make([]string, len(entries))
	for i, e := range entries {
		locs[i] = e.Loc
	}
	return locs
}
