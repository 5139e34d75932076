// Package content holds the static tables the site is rendered from: profile,
// contact details, services, projects, blog posts and reviews.
//
// The tables are YAML files embedded in the binary. A directory with the same
// file names can replace them at runtime; see Load and Watch.
package content

import (
	"net/url"
	"time"

	"portfolio/internal/i18n"
)

// DateLayout is the layout of blog post dates.
const DateLayout = "2006-01-02"

// Profile describes the site owner.
type Profile struct {
	Name       i18n.Text  `yaml:"name"`
	JobTitle   i18n.Text  `yaml:"job_title"`
	Hero       Hero       `yaml:"hero"`
	Highlights i18n.Texts `yaml:"highlights"`
	About      i18n.Text  `yaml:"about"`
	TechStack  i18n.Texts `yaml:"tech_stack"`
	KnowsAbout i18n.Texts `yaml:"knows_about"`
}

// Hero is the home page headline.
type Hero struct {
	Title    i18n.Text `yaml:"title"`
	Subtitle i18n.Text `yaml:"subtitle"`
}

// Contact lists the public contact channels.
type Contact struct {
	Email    string `yaml:"email"`
	GitHub   string `yaml:"github"`
	LinkedIn string `yaml:"linkedin"`
	WhatsApp string `yaml:"whatsapp"`
}

// WhatsAppLink returns a wa.me link that pre-fills message.
func (c Contact) WhatsAppLink(message string) string {
	if c.WhatsApp == "" {
		return ""
	}
	link := "https://wa.me/" + c.WhatsApp
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

// Service is an offered service with its detail page.
type Service struct {
	Slug         string      `yaml:"slug"`
	Title        i18n.Text   `yaml:"title"`
	Summary      i18n.Text   `yaml:"summary"`
	Bullets      i18n.Texts  `yaml:"bullets"`
	FocusKeyword i18n.Text   `yaml:"focus_keyword"`
	Deliverables []i18n.Text `yaml:"deliverables"`
	Outcomes     []i18n.Text `yaml:"outcomes"`
	Process      []i18n.Text `yaml:"process"`
}

// Project is a portfolio case study.
type Project struct {
	Slug           string     `yaml:"slug"`
	Name           i18n.Text  `yaml:"name"`
	Description    i18n.Text  `yaml:"description"`
	SEOTitle       i18n.Text  `yaml:"seo_title"`
	SEODescription i18n.Text  `yaml:"seo_description"`
	FocusKeyword   i18n.Text  `yaml:"focus_keyword"`
	Highlights     i18n.Texts `yaml:"highlights"`
	Tags           []string   `yaml:"tags"`
	TechStack      []string   `yaml:"tech_stack"`
	Year           int        `yaml:"year"`
	LiveURL        string     `yaml:"live_url"`
	RepoURL        string     `yaml:"repo_url"`
}

// Title returns the SEO title when present, the project name otherwise.
func (p Project) Title(l i18n.Locale) string {
	if p.SEOTitle.IsZero() {
		return p.Name.In(l)
	}
	return p.SEOTitle.In(l)
}

// Summary returns the SEO description when present, the description otherwise.
func (p Project) Summary(l i18n.Locale) string {
	if p.SEODescription.IsZero() {
		return p.Description.In(l)
	}
	return p.SEODescription.In(l)
}

// BlockType is the kind of a blog body block.
type BlockType string

const (
	BlockH2   BlockType = "h2"
	BlockH3   BlockType = "h3"
	BlockP    BlockType = "p"
	BlockCode BlockType = "code"
)

// Block is one piece of a blog post body. Code blocks carry Code and are not
// localized; every other block carries Text.
type Block struct {
	Type BlockType `yaml:"type"`
	Text i18n.Text `yaml:"text"`
	Code string    `yaml:"code"`
	Lang string    `yaml:"lang"`
}

// BlogPost is a bilingual article.
type BlogPost struct {
	Slug         string    `yaml:"slug"`
	Title        i18n.Text `yaml:"title"`
	Description  i18n.Text `yaml:"description"`
	FocusKeyword i18n.Text `yaml:"focus_keyword"`
	Tags         []string  `yaml:"tags"`
	Date         string    `yaml:"date"`
	Blocks       []Block   `yaml:"blocks"`

	published time.Time
}

// Published returns the parsed post date.
func (p BlogPost) Published() time.Time { return p.published }

// Review is a verified client review.
type Review struct {
	ID          string    `yaml:"id"`
	Platform    string    `yaml:"platform"`
	PlatformURL string    `yaml:"platform_url"`
	Rating      int       `yaml:"rating"`
	Text        i18n.Text `yaml:"text"`
}

// Site is the full, indexed content set.
type Site struct {
	Profile  Profile
	Contact  Contact
	Services []Service
	Projects []Project
	Posts    []BlogPost
	Reviews  []Review

	services map[string]int
	projects map[string]int
	posts    map[string]int
}

// Service looks a service up by slug.
func (s *Site) Service(slug string) (Service, bool) {
	i, ok := s.services[slug]
	if !ok {
		return Service{}, false
	}
	return s.Services[i], true
}

// Project looks a project up by slug.
func (s *Site) Project(slug string) (Project, bool) {
	i, ok := s.projects[slug]
	if !ok {
		return Project{}, false
	}
	return s.Projects[i], true
}

// Post looks a blog post up by slug.
func (s *Site) Post(slug string) (BlogPost, bool) {
	i, ok := s.posts[slug]
	if !ok {
		return BlogPost{}, false
	}
	return s.Posts[i], true
}

func (s *Site) index() {
	s.services = make(map[string]int, len(s.Services))
	for i, svc := range s.Services {
		s.services[svc.Slug] = i
	}
	s.projects = make(map[string]int, len(s.Projects))
	for i, p := range s.Projects {
		s.projects[p.Slug] = i
	}
	s.posts = make(map[string]int, len(s.Posts))
	for i := range s.Posts {
		post := &s.Posts[i]
		if published, err := time.Parse(DateLayout, post.Date); err == nil {
			post.published = published
		}
		s.posts[post.Slug] = i
	}
}
