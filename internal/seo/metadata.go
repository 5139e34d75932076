package seo

import (
	"strings"

	"portfolio/internal/i18n"
)

// Robots directives.
const (
	RobotsIndex   = "index, follow, max-snippet:-1, max-image-preview:large, max-video-preview:-1"
	RobotsNoIndex = "noindex, nofollow"
)

// XDefault is the hreflang value of the fallback alternate.
const XDefault = "x-default"

// OGType is an Open Graph object type.
type OGType string

const (
	Website OGType = "website"
	Article OGType = "article"
)

// Input describes one page. Path is site-relative and carries no locale.
type Input struct {
	Path        string
	Title       i18n.Text
	Description i18n.Text
	Keywords    i18n.Texts
	Image       string
	Type        OGType
	NoIndex     bool
}

// Alternate is one hreflang link.
type Alternate struct {
	Hreflang string
	Href     string
}

// OpenGraph holds the og:* properties.
type OpenGraph struct {
	Type            OGType
	URL             string
	Title           string
	Description     string
	SiteName        string
	Locale          string
	AlternateLocale string
	Image           string
}

// Twitter holds the twitter:* card properties.
type Twitter struct {
	Card        string
	Title       string
	Description string
	Image       string
}

// Metadata is everything the page head needs.
type Metadata struct {
	Locale      i18n.Locale
	Dir         i18n.Direction
	Title       string
	Description string
	Canonical   string
	Alternates  []Alternate
	Keywords    []string
	Robots      string
	OpenGraph   OpenGraph
	Twitter     Twitter
}

// KeywordList returns the keywords as a meta tag value.
func (m Metadata) KeywordList() string {
	return strings.Join(m.Keywords, ", ")
}

// Build resolves the metadata of in for locale l, filling site defaults.
func (s Site) Build(l i18n.Locale, in Input) Metadata {
	path := in.Path
	if path == "" {
		path = "/"
	}
	canonical := s.URL(l, path)

	title := in.Title.In(l)
	if title == "" {
		title = s.Name
	}
	description := in.Description.In(l)
	if description == "" {
		description = s.Description.In(l)
	}
	image := in.Image
	if image == "" {
		image = s.Abs("/og-cover.png")
	}
	ogType := in.Type
	if ogType == "" {
		ogType = Website
	}
	robots := RobotsIndex
	if in.NoIndex {
		robots = RobotsNoIndex
	}

	return Metadata{
		Locale:      l,
		Dir:         l.Dir(),
		Title:       title,
		Description: description,
		Canonical:   canonical,
		Alternates:  s.Alternates(path),
		Keywords:    in.Keywords.In(l),
		Robots:      robots,
		OpenGraph: OpenGraph{
			Type:            ogType,
			URL:             canonical,
			Title:           title,
			Description:     description,
			SiteName:        s.Name,
			Locale:          l.OpenGraph(),
			AlternateLocale: l.Other().OpenGraph(),
			Image:           image,
		},
		Twitter: Twitter{
			Card:        "summary_large_image",
			Title:       title,
			Description: description,
			Image:       image,
		},
	}
}

// Alternates lists the hreflang links of path: one per supported locale and
// x-default pointing at the default locale.
func (s Site) Alternates(path string) []Alternate {
	out := make([]Alternate, 0, len(i18n.Supported)+1)
	for _, l := range i18n.Supported {
		out = append(out, Alternate{Hreflang: l.String(), Href: s.URL(l, path)})
	}
	return append(out, Alternate{Hreflang: XDefault, Href: s.URL(s.defaultLocale(), path)})
}
