// Package seo builds the search-engine facing parts of the site: page
// metadata, JSON-LD structured data, the sitemap and robots.txt.
//
// Every absolute URL is built from Site.Origin and always carries a locale
// prefix; query-string locales are never emitted.
package seo

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"portfolio/internal/i18n"
)

// DefaultOrigin is used when no site origin is configured.
const DefaultOrigin = "https://elhussainy.pages.dev"

// Site carries the values every absolute URL and default tag is built from.
type Site struct {
	Origin        string
	Name          string
	Description   i18n.Text
	DefaultLocale i18n.Locale
}

// NormalizeOrigin trims whitespace and trailing slashes from raw and checks
// that it is an absolute http(s) origin without a path, query or fragment.
// An empty value yields DefaultOrigin.
func NormalizeOrigin(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return DefaultOrigin, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("site origin %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("site origin %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("site origin %q: missing host", raw)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return "", fmt.Errorf("site origin %q: must not carry a path, query, fragment or user info", raw)
	}
	return u.Scheme + "://" + strings.ToLower(u.Host), nil
}

// URL returns the absolute canonical URL of path in locale l. Any locale
// prefix already on path is replaced.
func (s Site) URL(l i18n.Locale, path string) string {
	return s.Origin + i18n.Path(l, path)
}

// Abs returns the absolute URL of a root-relative path.
func (s Site) Abs(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.Origin + path
}

// Relative turns an absolute URL on this site back into its path.
func (s Site) Relative(loc string) (string, error) {
	rest, ok := strings.CutPrefix(loc, s.Origin)
	if !ok || (rest != "" && !strings.HasPrefix(rest, "/")) {
		return "", errors.New("url is not on this site: " + loc)
	}
	if rest == "" {
		rest = "/"
	}
	return rest, nil
}

func (s Site) defaultLocale() i18n.Locale {
	if s.DefaultLocale.Valid() {
		return s.DefaultLocale
	}
	return i18n.Arabic
}
