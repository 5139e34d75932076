package content

import (
	"errors"
	"fmt"
	"time"

	"portfolio/internal/i18n"
)

// Validate checks the integrity of the content tables and returns every
// problem found, joined. Slugs must be canonical and unique per table, and
// every localized field must carry both English and Arabic.
func Validate(s *Site) error {
	v := &validator{}

	v.text("profile.name", s.Profile.Name)
	v.text("profile.job_title", s.Profile.JobTitle)
	v.text("profile.hero.title", s.Profile.Hero.Title)
	v.text("profile.hero.subtitle", s.Profile.Hero.Subtitle)
	v.text("profile.about", s.Profile.About)
	v.texts("profile.highlights", s.Profile.Highlights)
	v.texts("profile.tech_stack", s.Profile.TechStack)
	v.texts("profile.knows_about", s.Profile.KnowsAbout)
	if s.Contact.Email == "" {
		v.add("contact.email: empty")
	}

	seen := map[string]bool{}
	for i, svc := range s.Services {
		where := fmt.Sprintf("services[%d] %q", i, svc.Slug)
		v.slug(where, svc.Slug, seen)
		v.text(where+".title", svc.Title)
		v.text(where+".summary", svc.Summary)
		v.texts(where+".bullets", svc.Bullets)
		v.optionalText(where+".focus_keyword", svc.FocusKeyword)
		v.textList(where+".deliverables", svc.Deliverables)
		v.textList(where+".outcomes", svc.Outcomes)
		v.textList(where+".process", svc.Process)
	}

	seen = map[string]bool{}
	for i, p := range s.Projects {
		where := fmt.Sprintf("projects[%d] %q", i, p.Slug)
		v.slug(where, p.Slug, seen)
		v.text(where+".name", p.Name)
		v.text(where+".description", p.Description)
		v.optionalText(where+".seo_title", p.SEOTitle)
		v.optionalText(where+".seo_description", p.SEODescription)
		v.optionalText(where+".focus_keyword", p.FocusKeyword)
		if !p.Highlights.IsZero() {
			v.texts(where+".highlights", p.Highlights)
		}
	}

	seen = map[string]bool{}
	for i, post := range s.Posts {
		where := fmt.Sprintf("blog[%d] %q", i, post.Slug)
		v.slug(where, post.Slug, seen)
		v.text(where+".title", post.Title)
		v.text(where+".description", post.Description)
		v.optionalText(where+".focus_keyword", post.FocusKeyword)
		if _, err := time.Parse(DateLayout, post.Date); err != nil {
			v.add("%s.date: %q is not YYYY-MM-DD", where, post.Date)
		}
		if len(post.Blocks) == 0 {
			v.add("%s.blocks: empty", where)
		}
		for j, b := range post.Blocks {
			bw := fmt.Sprintf("%s.blocks[%d]", where, j)
			switch b.Type {
			case BlockH2, BlockH3, BlockP:
				v.text(bw+".text", b.Text)
			case BlockCode:
				if b.Code == "" {
					v.add("%s.code: empty", bw)
				}
			default:
				v.add("%s.type: unknown block type %q", bw, b.Type)
			}
		}
	}

	seen = map[string]bool{}
	for i, r := range s.Reviews {
		where := fmt.Sprintf("reviews[%d] %q", i, r.ID)
		if r.ID == "" {
			v.add("%s.id: empty", where)
		} else if seen[r.ID] {
			v.add("%s.id: duplicate", where)
		}
		seen[r.ID] = true
		if r.Rating < 1 || r.Rating > 5 {
			v.add("%s.rating: %d outside 1..5", where, r.Rating)
		}
		v.text(where+".text", r.Text)
	}

	return errors.Join(v.errs...)
}

type validator struct {
	errs []error
}

func (v *validator) add(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) slug(where, slug string, seen map[string]bool) {
	switch {
	case slug == "":
		v.add("%s.slug: empty", where)
		return
	case seen[slug]:
		v.add("%s.slug: duplicate", where)
	}
	seen[slug] = true
	if normalized, err := NormalizeSlug(slug); err != nil || normalized != slug {
		v.add("%s.slug: not canonical", where)
	}
}

func (v *validator) text(where string, t i18n.Text) {
	for _, l := range t.Missing() {
		v.add("%s: missing %s", where, l)
	}
}

func (v *validator) optionalText(where string, t i18n.Text) {
	if !t.IsZero() {
		v.text(where, t)
	}
}

func (v *validator) texts(where string, t i18n.Texts) {
	for _, l := range t.Missing() {
		v.add("%s: missing %s", where, l)
	}
}

func (v *validator) textList(where string, items []i18n.Text) {
	if len(items) == 0 {
		v.add("%s: empty", where)
	}
	for i, t := range items {
		v.text(fmt.Sprintf("%s[%d]", where, i), t)
	}
}
