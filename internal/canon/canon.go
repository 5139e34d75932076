// Package canon decides the canonical form of every incoming URL.
//
// Canonicalize is a pure function: it collapses duplicate slashes, drops
// index.html and trailing slashes, removes tracking parameters and places
// page routes under a locale prefix. The HTTP layer turns a Result with
// Redirect set into a 301.
package canon

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"portfolio/internal/i18n"
)

// Kind classifies a canonicalized request.
type Kind int

const (
	// Page is a locale-aware site route.
	Page Kind = iota
	// SEOFile is a root-level system file such as /robots.txt.
	SEOFile
	// Asset is a static file that never receives locale logic.
	Asset
	// Passthrough is a request canonicalization does not touch.
	Passthrough
)

func (k Kind) String() string {
	switch k {
	case Page:
		return "page"
	case SEOFile:
		return "seo-file"
	case Asset:
		return "asset"
	default:
		return "passthrough"
	}
}

// Request is the input to Canonicalize.
type Request struct {
	Method string
	// Path is the escaped request path, as sent on the wire.
	Path     string
	RawQuery string
	// ForceQuery is set when the URL ended in a bare "?".
	ForceQuery bool
	// Preferred is used instead of the default locale when the URL names none.
	Preferred i18n.Locale
}

// FromURL builds a Request from a parsed URL. The path is kept escaped so that
// encoded separators such as %2F and %3F survive into Location.
func FromURL(method string, u *url.URL) Request {
	return Request{Method: method, Path: u.EscapedPath(), RawQuery: u.RawQuery, ForceQuery: u.ForceQuery}
}

// Result is the canonical form of a Request. Path is escaped.
type Result struct {
	Path     string
	RawQuery string
	Kind     Kind
	// Locale is set for Page results that carry a locale prefix.
	Locale   i18n.Locale
	Redirect bool
}

// Location returns the canonical path and query.
func (r Result) Location() string {
	if r.RawQuery == "" {
		return r.Path
	}
	return r.Path + "?" + r.RawQuery
}

// Rules holds the static lookup tables Canonicalize applies.
type Rules struct {
	DefaultLocale  i18n.Locale
	Sections       map[string]bool
	StripQuery     map[string]bool
	SEOFiles       map[string]bool
	SitemapAliases map[string]bool
	AssetPrefixes  []string
	AssetExts      []string
}

// DefaultRules returns the rule set for the site. extraSEOFiles adds root files
// such as search-engine verification pages.
func DefaultRules(def i18n.Locale, extraSEOFiles ...string) Rules {
	r := Rules{
		DefaultLocale: def,
		Sections:      set("about", "services", "projects", "blog", "contact"),
		StripQuery: set("lang", "utm_source", "utm_medium", "utm_campaign", "utm_term",
			"utm_content", "gclid", "fbclid", "mc_cid", "mc_eid"),
		SEOFiles: set("/sitemap.xml", "/robots.txt", "/favicon.svg", "/llms.txt", "/ai.txt",
			"/og-cover.svg", "/og-cover.png"),
		SitemapAliases: set("/sitemap-index.xml", "/sitemap-en.xml", "/sitemap-ar.xml",
			"/en/sitemap.xml", "/ar/sitemap.xml"),
		AssetPrefixes: []string{"/assets/", "/brand/", "/reviews/", "/skills/"},
		AssetExts:     []string{".png", ".jpg", ".jpeg", ".webp", ".svg", ".ico", ".css", ".js", ".map"},
	}
	for _, f := range extraSEOFiles {
		if f == "" {
			continue
		}
		if !strings.HasPrefix(f, "/") {
			f = "/" + f
		}
		r.SEOFiles[f] = true
	}
	return r
}

var repeatedSlashes = regexp.MustCompile(`/{2,}`)

// Canonicalize computes the canonical form of req.
func (r Rules) Canonicalize(req Request) Result {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return Result{Path: req.Path, RawQuery: req.RawQuery, Kind: Passthrough}
	}

	path := CleanPath(req.Path)
	if r.SitemapAliases[path] {
		path = "/sitemap.xml"
	}

	desired, query := r.cleanQuery(req.RawQuery)
	changed := path != req.Path || query != req.RawQuery || req.ForceQuery

	if r.SEOFiles[path] {
		return Result{Path: path, RawQuery: query, Kind: SEOFile, Redirect: changed}
	}
	if r.isAsset(path) {
		return Result{Path: path, RawQuery: query, Kind: Asset, Redirect: changed}
	}

	fallback := r.DefaultLocale
	if req.Preferred.Valid() {
		fallback = req.Preferred
	}
	target := fallback
	if desired != "" {
		target = desired
	}

	locale, rest, isLocale := i18n.Split(path)
	switch {
	case path == "/":
		path = i18n.Path(target, "/")
		locale = target
	case isLocale:
		if desired != "" && desired != locale {
			locale = desired
			path = i18n.Path(locale, rest)
		}
	case r.isSection(path):
		path = i18n.Path(target, path)
		locale = target
	default:
		if l, tail, ok := r.foreignLocale(path, target); ok {
			if desired != "" {
				l = desired
			}
			locale = l
			path = i18n.Path(l, tail)
		}
	}

	if path != req.Path {
		changed = true
	}
	return Result{Path: path, RawQuery: query, Kind: Page, Locale: locale, Redirect: changed}
}

// CleanPath collapses repeated slashes, drops an index.html suffix and removes
// a trailing slash.
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}
	p = repeatedSlashes.ReplaceAllString(p, "/")
	for {
		next := strings.TrimSuffix(p, "/index.html")
		if len(next) > 1 && strings.HasSuffix(next, "/") {
			next = strings.TrimSuffix(next, "/")
		}
		if next == "" {
			next = "/"
		}
		if next == p {
			return p
		}
		p = next
	}
}

// cleanQuery drops stripped keys and empty pairs, keeping the order and
// encoding of the rest. A valid ?lang= value is returned as desired.
func (r Rules) cleanQuery(raw string) (desired i18n.Locale, query string) {
	if raw == "" {
		return "", ""
	}
	kept := make([]string, 0, 4)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			key = rawKey
		}
		if key == "lang" {
			value, err := url.QueryUnescape(rawValue)
			if err != nil {
				value = rawValue
			}
			if l, ok := i18n.Parse(value); ok && string(l) == value {
				desired = l
			}
		}
		if r.StripQuery[key] {
			continue
		}
		kept = append(kept, pair)
	}
	return desired, strings.Join(kept, "&")
}

func (r Rules) isAsset(p string) bool {
	for _, prefix := range r.AssetPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	lower := strings.ToLower(p)
	for _, ext := range r.AssetExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (r Rules) isSection(p string) bool {
	first, _, _ := strings.Cut(strings.TrimPrefix(p, "/"), "/")
	return r.Sections[first]
}

// foreignLocale handles a leading segment that looks like a locale prefix but
// is not a canonical one. Case and region variants of a site locale (/EN,
// /ar-EG/blog) map to that locale. Other two-letter languages (/fr/about) only
// count in front of a known section, so /it or /api stay ordinary paths.
func (r Rules) foreignLocale(p string, fallback i18n.Locale) (i18n.Locale, string, bool) {
	first, tail, _ := strings.Cut(strings.TrimPrefix(p, "/"), "/")
	if !twoLetterBase(first) || !i18n.IsLanguage(first) {
		return "", "", false
	}
	tail = "/" + tail
	if tail != "/" && !r.isSection(tail) {
		return "", "", false
	}
	if l, ok := i18n.FromTag(first); ok {
		return l, tail, true
	}
	if tail == "/" {
		return "", "", false
	}
	return fallback, tail, true
}

func twoLetterBase(tag string) bool {
	base, _, _ := strings.Cut(strings.ReplaceAll(tag, "_", "-"), "-")
	return len(base) == 2
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, item := range items {
		m[item] = true
	}
	return m
}
