package app

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"portfolio/internal/content"
	"portfolio/internal/i18n"
	"portfolio/internal/seo"
)

const maxFormBytes = 64 << 10

// pathLocale reads the {locale} segment. Anything but an exact supported
// locale renders the not-found page.
func (s *Server) pathLocale(w http.ResponseWriter, r *http.Request) (i18n.Locale, bool) {
	raw := r.PathValue("locale")
	l, ok := i18n.Parse(raw)
	if !ok || l.String() != raw {
		s.notFound(w, r)
		return "", false
	}
	return l, true
}

func homeCrumb(l i18n.Locale) seo.Crumb {
	return seo.Crumb{Name: label(l, "nav.home"), Path: "/"}
}

type homeBody struct {
	Profile  content.Profile
	Services []content.Service
	Projects []content.Project
	Posts    []content.BlogPost
	Reviews  []content.Review
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	l, ok := s.pathLocale(w, r)
	if !ok {
		return
	}
	c := s.content.Site()
	site := s.seoSite(c)

	posts := c.PostsByDate()
	if len(posts) > 3 {
		posts = posts[:3]
	}
	body := homeBody{Profile: c.Profile, Services: c.Services, Projects: c.Projects, Posts: posts, Reviews: c.Reviews}
	in := seo.Input{
		Path:        "/",
		Title:       titled(c.Profile.Hero.Title, c.Profile.Name),
		Description: c.Profile.Hero.Subtitle,
		Keywords:    c.Profile.KnowsAbout,
	}
	s.page(w, http.StatusOK, "home", l, c, in, body,
		site.WebSite(l), site.Person(l, c.Profile, c.Contact), site.Breadcrumbs(l, homeCrumb(l)))
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	l, ok := s.pathLocale(w, r)
	if !ok {
		return
	}
	c := s.content.Site()
	site := s.seoSite(c)
	in := seo.Input{
		Path:        "/about",
		Title:       titled(labelText("about.title"), c.Profile.Name),
		Description: c.Profile.About,
		Keywords:    c.Profile.KnowsAbout,
	}
	s.page(w, http.StatusOK, "about", l, c, in, c.Profile,
		site.Person(l, c.Profile, c.Contact),
		site.Breadcrumbs(l, homeCrumb(l), seo.Crumb{Name: label(l, "nav.about"), Path: "/about"}))
}

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	l, ok := s.pathLocale(w, r)
	if !ok {
		return
	}
	c := s.content.Site()
	site := s.seoSite(c)
	in := seo.Input{
		Path:        "/services",
		Title:       titled(labelText("services.title"), c.Profile.Name),
		Description: labelText("services.intro"),
	}
	s.page(w, http.StatusOK, "services", l, c, in, c.Services,
		site.ServiceList(l, c.Services),
		site.Breadcrumbs(l, homeCrumb(l), seo.Crumb{Name: label(l, "nav.services"), Path: "/services"}))
}

type serviceBody struct {
	Service  content.Service
	WhatsApp string
}

func (s *Server) handleService(w http.ResponseWriter, r *http.Request) {
	l, ok := s.pathLocale(w, r)
	if !ok {
		return
	}
	c := s.content.Site()
	svc, ok := c.Service(r.PathValue("slug"))
	if !ok {
		s.notFound(w, r)
		return
	}
	site := s.seoSite(c)
	path := "/services/" + svc.Slug
	in := seo.Input{
		Path:        path,
		Title:       titled(svc.Title, c.Profile.Name),
		Description: svc.Summary,
		Keywords:    keywords(nil, svc.FocusKeyword),
	}
	body := serviceBody{
		Service:  svc,
		WhatsApp: c.Contact.WhatsAppLink(label(l, "service.message") + svc.Title.In(l)),
	}
	s.page(w, http.StatusOK, "service", l, c, in, body,
		site.Service(l, svc),
		site.Breadcrumbs(l, homeCrumb(l),
			seo.Crumb{Name: label(l, "nav.services"), Path: "/services"},
			seo.Crumb{Name: svc.Title.In(l), Path: path}))
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	l, ok := s.pathLocale(w, r)
	if !ok {
		return
	}
	c := s.content.Site()
	site := s.seoSite(c)
	in := seo.Input{
		Path:        "/projects",
		Title:       titled(labelText("projects.title"), c.Profile.Name),
		Description: labelText("projects.intro"),
	}
	s.page(w, http.StatusOK, "projects", l, c, in, c.Projects,
		site.ProjectList(l, c.Projects),
		site.Breadcrumbs(l, homeCrumb(l), seo.Crumb{Name: label(l, "nav.projects"), Path: "/projects"}))
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	l, ok := s.pathLocale(w, r)
	if !ok {
		return
	}
	c := s.content.Site()
	p, ok := c.Project(r.PathValue("slug"))
	if !ok {
		s.notFound(w, r)
		return
	}
	site := s.seoSite(c)
	path := "/projects/" + p.Slug
	in := seo.Input{
		Path:        path,
		Title:       i18n.Text{EN: p.Title(i18n.English), AR: p.Title(i18n.Arabic)},
		Description: i18n.Text{EN: p.Summary(i18n.English), AR: p.Summary(i18n.Arabic)},
		Keywords:    keywords(p.Tags, p.FocusKeyword),
		Type:        seo.Article,
	}
	s.page(w, http.StatusOK, "project", l, c, in, p,
		site.CaseStudy(l, p),
		site.Breadcrumbs(l, homeCrumb(l),
			seo.Crumb{Name: label(l, "nav.projects"), Path: "/projects"},
			seo.Crumb{Name: p.Name.In(l), Path: path}))
}

func (s *Server) handleBlog(w http.ResponseWriter, r *http.Request) {
	l, ok := s.pathLocale(w, r)
	if !ok {
		return
	}
	c := s.content.Site()
	site := s.seoSite(c)
	posts := c.PostsByDate()
	in := seo.Input{
		Path:        "/blog",
		Title:       titled(labelText("blog.title"), c.Profile.Name),
		Description: labelText("blog.intro"),
	}
	s.page(w, http.StatusOK, "blog", l, c, in, posts,
		site.BlogList(l, posts),
		site.Breadcrumbs(l, homeCrumb(l), seo.Crumb{Name: label(l, "nav.blog"), Path: "/blog"}))
}

type postBody struct {
	Post     content.BlogPost
	Related  []content.BlogPost
	Services []content.Service
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	l, ok := s.pathLocale(w, r)
	if !ok {
		return
	}
	c := s.content.Site()
	post, ok := c.Post(r.PathValue("slug"))
	if !ok {
		s.notFound(w, r)
		return
	}
	site := s.seoSite(c)
	path := "/blog/" + post.Slug
	in := seo.Input{
		Path:        path,
		Title:       post.Title,
		Description: post.Description,
		Keywords:    keywords(post.Tags, post.FocusKeyword),
		Type:        seo.Article,
	}
	body := postBody{
		Post:     post,
		Related:  c.RelatedPosts(post, 3),
		Services: c.RelatedServices(post, l, 2),
	}
	s.page(w, http.StatusOK, "post", l, c, in, body,
		site.BlogPosting(l, post),
		site.Breadcrumbs(l, homeCrumb(l),
			seo.Crumb{Name: label(l, "nav.blog"), Path: "/blog"},
			seo.Crumb{Name: post.Title.In(l), Path: path}))
}

type contactBody struct {
	SubmissionID string
	Sent         bool
	Offline      bool
	Failed       bool
	Invalid      bool
	Errors       map[string]string
	Name         string
	Email        string
	Message      string
	WhatsApp     string
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	l, ok := s.pathLocale(w, r)
	if !ok {
		return
	}
	body := contactBody{
		SubmissionID: uuid.NewString(),
		Sent:         r.URL.Query().Get("sent") == "1",
		Offline:      s.inquiries == nil,
	}
	s.contactPage(w, http.StatusOK, l, body)
}

func (s *Server) handleContactSubmit(w http.ResponseWriter, r *http.Request) {
	l, ok := s.pathLocale(w, r)
	if !ok {
		return
	}
	if s.inquiries == nil {
		s.contactPage(w, http.StatusServiceUnavailable, l, contactBody{Offline: true})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.contactPage(w, http.StatusBadRequest, l, contactBody{SubmissionID: uuid.NewString(), Invalid: true})
		return
	}
	// bots fill the hidden field; accept silently without storing
	if r.PostForm.Get("website") != "" {
		http.Redirect(w, r, sentLocation(l), http.StatusSeeOther)
		return
	}

	inq, err := NewInquiry(r.PostForm.Get("submission_id"), l,
		r.PostForm.Get("name"), r.PostForm.Get("email"), r.PostForm.Get("message"))
	if err != nil {
		body := contactBody{
			SubmissionID: inq.ID.String(),
			Invalid:      true,
			Errors:       map[string]string{},
			Name:         inq.Name,
			Email:        inq.Email,
			Message:      inq.Message,
		}
		var fields FieldErrors
		if errors.As(err, &fields) {
			for field, code := range fields {
				body.Errors[field] = fieldMessage(code)
			}
		}
		s.contactPage(w, http.StatusUnprocessableEntity, l, body)
		return
	}

	err = s.inquiries.Insert(r.Context(), inq)
	switch {
	case err == nil:
		s.logger.Info("inquiry stored", zap.String("id", inq.ID.String()), zap.String("locale", l.String()))
	case errors.Is(err, ErrDuplicateInquiry):
		s.logger.Info("inquiry resubmitted", zap.String("id", inq.ID.String()))
	default:
		s.logger.Error("store inquiry", zap.String("id", inq.ID.String()), zap.Error(err))
		s.contactPage(w, http.StatusInternalServerError, l, contactBody{
			SubmissionID: inq.ID.String(),
			Failed:       true,
			Name:         inq.Name,
			Email:        inq.Email,
			Message:      inq.Message,
		})
		return
	}
	http.Redirect(w, r, sentLocation(l), http.StatusSeeOther)
}

func sentLocation(l i18n.Locale) string {
	return i18n.Path(l, "/contact") + "?sent=1"
}

func (s *Server) contactPage(w http.ResponseWriter, status int, l i18n.Locale, body contactBody) {
	c := s.content.Site()
	site := s.seoSite(c)
	body.WhatsApp = c.Contact.WhatsAppLink("")
	in := seo.Input{
		Path:        "/contact",
		Title:       titled(labelText("contact.title"), c.Profile.Name),
		Description: labelText("contact.intro"),
	}
	s.page(w, status, "contact", l, c, in, body,
		site.Breadcrumbs(l, homeCrumb(l), seo.Crumb{Name: label(l, "nav.contact"), Path: "/contact"}))
}

// notFound renders the not-found page in the locale named by the path, or the
// default locale.
func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	l, rest, ok := i18n.Split(r.URL.Path)
	if !ok {
		l = s.cfg.DefaultLocale
	}
	c := s.content.Site()
	in := seo.Input{
		Path:        rest,
		Title:       titled(labelText("notfound.title"), c.Profile.Name),
		Description: labelText("notfound.body"),
		NoIndex:     true,
	}
	s.page(w, http.StatusNotFound, "notfound", l, c, in, nil)
}

func (s *Server) page(w http.ResponseWriter, status int, name string, l i18n.Locale, c *content.Site, in seo.Input, body any, jsonld ...any) {
	data, err := s.newPage(l, c, in, body, jsonld...)
	if err != nil {
		s.logger.Error("build page", zap.String("template", name), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	s.render(w, status, name, data)
}

func seoFileHeaders(w http.ResponseWriter, contentType string) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Cache-Control", "public, max-age=3600")
	h.Set("X-Robots-Tag", "all")
}

func (s *Server) handleSitemap(w http.ResponseWriter, r *http.Request) {
	body, err := s.sitemapXML()
	if err != nil {
		s.logger.Error("render sitemap", zap.Error(err))
		http.Error(w, "failed to render sitemap", http.StatusInternalServerError)
		return
	}
	seoFileHeaders(w, "application/xml; charset=utf-8")
	_, _ = w.Write(body)
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	seoFileHeaders(w, "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(seo.Robots(s.cfg.Origin)))
}

// handleLLMs serves a plain-text map of the site for language models.
func (s *Server) handleLLMs(w http.ResponseWriter, r *http.Request) {
	c := s.content.Site()
	site := s.seoSite(c)
	l := s.cfg.DefaultLocale

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n> %s\n\n", c.Profile.Name.In(l), c.Profile.Hero.Subtitle.In(l))
	b.WriteString("## Pages\n\n")
	for _, p := range seo.StaticPaths {
		key := "nav.home"
		if p != "/" {
			key = "nav." + strings.TrimPrefix(p, "/")
		}
		fmt.Fprintf(&b, "- [%s](%s)\n", label(l, key), site.URL(l, p))
	}
	b.WriteString("\n## Services\n\n")
	for _, svc := range c.Services {
		fmt.Fprintf(&b, "- [%s](%s): %s\n", svc.Title.In(l), site.URL(l, "/services/"+svc.Slug), svc.Summary.In(l))
	}
	b.WriteString("\n## Projects\n\n")
	for _, p := range c.Projects {
		fmt.Fprintf(&b, "- [%s](%s): %s\n", p.Title(l), site.URL(l, "/projects/"+p.Slug), p.Summary(l))
	}
	b.WriteString("\n## Blog\n\n")
	for _, post := range c.PostsByDate() {
		fmt.Fprintf(&b, "- [%s](%s): %s\n", post.Title.In(l), site.URL(l, "/blog/"+post.Slug), post.Description.In(l))
	}

	seoFileHeaders(w, "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(b.String()))
}

// handleFile serves verification files and the bundled static files.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if body, ok := s.cfg.VerificationFiles[r.URL.Path]; ok {
		contentType := "text/plain; charset=utf-8"
		if strings.HasSuffix(r.URL.Path, ".html") {
			contentType = "text/html; charset=utf-8"
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/")
	info, err := fs.Stat(s.static, name)
	if err != nil || info.IsDir() {
		s.notFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFileFS(w, r, s.static, name)
}
