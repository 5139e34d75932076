package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"portfolio/internal/content"
	"portfolio/internal/i18n"
)

const schemaContext = "https://schema.org"

// ItemList orders.
const (
	OrderAscending  = "http://schema.org/ItemListOrderAscending"
	OrderDescending = "http://schema.org/ItemListOrderDescending"
)

// Person is a schema.org Person.
type Person struct {
	Context    string   `json:"@context,omitempty"`
	Type       string   `json:"@type"`
	Name       string   `json:"name"`
	URL        string   `json:"url,omitempty"`
	JobTitle   string   `json:"jobTitle,omitempty"`
	Email      string   `json:"email,omitempty"`
	KnowsAbout []string `json:"knowsAbout,omitempty"`
	SameAs     []string `json:"sameAs,omitempty"`
}

// WebPage is a reference to a page.
type WebPage struct {
	Type string `json:"@type"`
	ID   string `json:"@id,omitempty"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// ListItem is an entry of a BreadcrumbList or ItemList.
type ListItem struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name,omitempty"`
	Item     any    `json:"item"`
}

// BreadcrumbList is a schema.org BreadcrumbList.
type BreadcrumbList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// ItemList is a schema.org ItemList.
type ItemList struct {
	Context         string     `json:"@context"`
	Type            string     `json:"@type"`
	ItemListOrder   string     `json:"itemListOrder"`
	NumberOfItems   int        `json:"numberOfItems"`
	ItemListElement []ListItem `json:"itemListElement"`
}

// WebSite is a schema.org WebSite.
type WebSite struct {
	Context    string  `json:"@context"`
	Type       string  `json:"@type"`
	Name       string  `json:"name"`
	URL        string  `json:"url"`
	InLanguage string  `json:"inLanguage"`
	Publisher  *Person `json:"publisher"`
}

// Service is a schema.org Service.
type Service struct {
	Context     string  `json:"@context,omitempty"`
	Type        string  `json:"@type"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Provider    *Person `json:"provider"`
	AreaServed  string  `json:"areaServed"`
	ServiceType string  `json:"serviceType"`
}

// BlogPosting is a schema.org BlogPosting.
type BlogPosting struct {
	Context          string  `json:"@context"`
	Type             string  `json:"@type"`
	Headline         string  `json:"headline"`
	Description      string  `json:"description"`
	InLanguage       string  `json:"inLanguage"`
	Keywords         string  `json:"keywords,omitempty"`
	DatePublished    string  `json:"datePublished"`
	DateModified     string  `json:"dateModified"`
	MainEntityOfPage WebPage `json:"mainEntityOfPage"`
	Author           *Person `json:"author"`
	Publisher        *Person `json:"publisher"`
	URL              string  `json:"url"`
}

// CaseStudy describes a portfolio project.
type CaseStudy struct {
	Context          string  `json:"@context"`
	Type             string  `json:"@type"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	InLanguage       string  `json:"inLanguage"`
	URL              string  `json:"url"`
	Creator          *Person `json:"creator"`
	Author           *Person `json:"author"`
	Keywords         string  `json:"keywords,omitempty"`
	MainEntityOfPage WebPage `json:"mainEntityOfPage"`
}

// Crumb is one breadcrumb. Path is site-relative without locale.
type Crumb struct {
	Name string
	Path string
}

// Breadcrumbs builds a BreadcrumbList of crumbs in locale l.
func (s Site) Breadcrumbs(l i18n.Locale, crumbs ...Crumb) BreadcrumbList {
	items := make([]ListItem, len(crumbs))
	for i, c := range crumbs {
		items[i] = ListItem{Type: "ListItem", Position: i + 1, Name: c.Name, Item: s.URL(l, c.Path)}
	}
	return BreadcrumbList{Context: schemaContext, Type: "BreadcrumbList", ItemListElement: items}
}

func (s Site) author() *Person {
	return &Person{Type: "Person", Name: s.Name, URL: s.Origin}
}

// WebSite describes the site itself.
func (s Site) WebSite(l i18n.Locale) WebSite {
	return WebSite{
		Context:    schemaContext,
		Type:       "WebSite",
		Name:       s.Name,
		URL:        s.Origin,
		InLanguage: l.String(),
		Publisher:  s.author(),
	}
}

// Person describes the site owner in locale l.
func (s Site) Person(l i18n.Locale, p content.Profile, c content.Contact) Person {
	var sameAs []string
	for _, link := range []string{c.GitHub, c.LinkedIn} {
		if link != "" {
			sameAs = append(sameAs, link)
		}
	}
	email := ""
	if c.Email != "" {
		email = "mailto:" + c.Email
	}
	return Person{
		Context:    schemaContext,
		Type:       "Person",
		Name:       p.Name.In(l),
		URL:        s.Origin,
		JobTitle:   p.JobTitle.In(l),
		Email:      email,
		KnowsAbout: p.KnowsAbout.In(l),
		SameAs:     sameAs,
	}
}

// Service describes svc, pointing at its detail page.
func (s Site) Service(l i18n.Locale, svc content.Service) Service {
	serviceType := strings.TrimSpace(svc.FocusKeyword.In(l))
	if serviceType == "" {
		serviceType = svc.Title.In(l)
	}
	return Service{
		Context:     schemaContext,
		Type:        "Service",
		Name:        svc.Title.In(l),
		Description: svc.Summary.In(l),
		URL:         s.URL(l, "/services/"+svc.Slug),
		Provider:    s.author(),
		AreaServed:  "Worldwide",
		ServiceType: serviceType,
	}
}

// ServiceList is an ascending ItemList of services.
func (s Site) ServiceList(l i18n.Locale, services []content.Service) ItemList {
	items := make([]ListItem, len(services))
	for i, svc := range services {
		item := s.Service(l, svc)
		item.Context = ""
		items[i] = ListItem{Type: "ListItem", Position: i + 1, Item: item}
	}
	return itemList(OrderAscending, items)
}

// BlogPosting describes post.
func (s Site) BlogPosting(l i18n.Locale, post content.BlogPost) BlogPosting {
	url := s.URL(l, "/blog/"+post.Slug)
	return BlogPosting{
		Context:          schemaContext,
		Type:             "BlogPosting",
		Headline:         post.Title.In(l),
		Description:      post.Description.In(l),
		InLanguage:       l.String(),
		Keywords:         joinKeywords(post.Tags, post.FocusKeyword.In(l)),
		DatePublished:    post.Date,
		DateModified:     post.Date,
		MainEntityOfPage: WebPage{Type: "WebPage", ID: url},
		Author:           s.author(),
		Publisher:        s.author(),
		URL:              url,
	}
}

// BlogList is a descending ItemList of posts, given newest first.
func (s Site) BlogList(l i18n.Locale, posts []content.BlogPost) ItemList {
	items := make([]ListItem, len(posts))
	for i, p := range posts {
		items[i] = ListItem{Type: "ListItem", Position: i + 1, Item: WebPage{
			Type: "WebPage",
			Name: p.Title.In(l),
			URL:  s.URL(l, "/blog/"+p.Slug),
		}}
	}
	return itemList(OrderDescending, items)
}

// CaseStudy describes project.
func (s Site) CaseStudy(l i18n.Locale, p content.Project) CaseStudy {
	url := s.URL(l, "/projects/"+p.Slug)
	keywords := append(append([]string{}, p.Tags...), p.TechStack...)
	return CaseStudy{
		Context:          schemaContext,
		Type:             "CaseStudy",
		Name:             p.Title(l),
		Description:      p.Summary(l),
		InLanguage:       l.String(),
		URL:              url,
		Creator:          s.author(),
		Author:           s.author(),
		Keywords:         joinKeywords(keywords, p.FocusKeyword.In(l)),
		MainEntityOfPage: WebPage{Type: "WebPage", ID: url},
	}
}

// ProjectList is an ascending ItemList of projects.
func (s Site) ProjectList(l i18n.Locale, projects []content.Project) ItemList {
	items := make([]ListItem, len(projects))
	for i, p := range projects {
		items[i] = ListItem{Type: "ListItem", Position: i + 1, Item: WebPage{
			Type: "WebPage",
			Name: p.Title(l),
			URL:  s.URL(l, "/projects/"+p.Slug),
		}}
	}
	return itemList(OrderAscending, items)
}

func itemList(order string, items []ListItem) ItemList {
	return ItemList{
		Context:         schemaContext,
		Type:            "ItemList",
		ItemListOrder:   order,
		NumberOfItems:   len(items),
		ItemListElement: items,
	}
}

func joinKeywords(words []string, focus string) string {
	out := make([]string, 0, len(words)+1)
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	if focus = strings.TrimSpace(focus); focus != "" {
		out = append(out, focus)
	}
	return strings.Join(out, ", ")
}

// Script marshals v for a <script type="application/ld+json"> element. The
// encoder escapes <, > and & so the payload cannot close the element.
func Script(v any) (template.JS, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json-ld: %w", err)
	}
	return template.JS(data), nil
}
