package app

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"portfolio/internal/content"
	"portfolio/internal/i18n"
	"portfolio/internal/seo"
)

const testOrigin = "https://example.com"

func testConfig() Config {
	return Config{
		Port:          "8080",
		Origin:        testOrigin,
		SiteName:      "Example",
		DefaultLocale: i18n.Arabic,
		VerificationFiles: map[string]string{
			"/google1234abcd.html": "google-site-verification: google1234abcd.html",
		},
	}
}

func newTestServer(t *testing.T, cfg Config, inquiries *InquiryStore) (*Server, *content.Store) {
	t.Helper()
	site, err := content.Embedded()
	require.NoError(t, err)
	store := content.NewStore(site)
	srv, err := NewServer(cfg, store, inquiries, zap.NewNop())
	require.NoError(t, err)
	return srv, store
}

func get(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCanonicalRedirects(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)

	tests := map[string]string{
		"/":                                 "/ar",
		"/about":                            "/ar/about",
		"/blog/":                            "/ar/blog",
		"/en/about/":                        "/en/about",
		"/en//blog":                         "/en/blog",
		"/en/index.html":                    "/en",
		"/?lang=en":                         "/en",
		"/ar/services?lang=en":              "/en/services",
		"/en/about?utm_source=x&page=2":     "/en/about?page=2",
		"/EN/about":                         "/en/about",
		"/sitemap-index.xml":                "/sitemap.xml",
		"/en/projects?fbclid=abc&gclid=zzz": "/en/projects",
		"/services?utm_campaign=launch&x=1": "/ar/services?x=1",
		"/fr/about":                         "/ar/about",
		"/blog/a%3Fb":                       "/ar/blog/a%3Fb",
		"/blog/100%25":                      "/ar/blog/100%25",
		"/en/blog/a%2Fb/":                   "/en/blog/a%2Fb",
		"/assets/a%20b.png?utm_source=x":    "/assets/a%20b.png",
	}
	for target, want := range tests {
		rec := get(t, srv, target)
		if rec.Code != http.StatusMovedPermanently {
			t.Fatalf("GET %s: status %d, want 301", target, rec.Code)
		}
		if got := rec.Header().Get("Location"); got != want {
			t.Fatalf("GET %s: Location %q, want %q", target, got, want)
		}
	}
}

func TestNegotiatedLocale(t *testing.T) {
	cfg := testConfig()
	cfg.NegotiateLocale = true
	srv, _ := newTestServer(t, cfg, nil)

	rec := get(t, srv, "/about", "Accept-Language", "en-US,en;q=0.9")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/en/about", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Values("Vary"), "Accept-Language")

	rec = get(t, srv, "/", "Accept-Language", "de-DE")
	assert.Equal(t, "/ar", rec.Header().Get("Location"))

	// an explicit locale wins over the header
	rec = get(t, srv, "/en/about", "Accept-Language", "ar")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNegotiationOffByDefault(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)
	rec := get(t, srv, "/", "Accept-Language", "en")
	assert.Equal(t, "/ar", rec.Header().Get("Location"))
	assert.Empty(t, rec.Header().Values("Vary"))
}

func TestSecurityHeaders(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)
	for _, target := range []string{"/en", "/", "/robots.txt", "/en/missing"} {
		rec := get(t, srv, target)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), target)
		assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"), target)
	}
}

func TestEverySitemapPageRenders(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)
	site := srv.SEO()

	for _, entry := range srv.SitemapEntries() {
		path, err := site.Relative(entry.Loc)
		require.NoError(t, err)
		l, _, ok := i18n.Split(path)
		require.True(t, ok, path)

		rec := get(t, srv, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"), path)

		body := rec.Body.String()
		assert.Contains(t, body, `<html lang="`+l.String()+`" dir="`+string(l.Dir())+`">`, path)
		assert.Contains(t, body, `<link rel="canonical" href="`+entry.Loc+`">`, path)
		assert.Contains(t, body, `hreflang="x-default"`, path)
		assert.Contains(t, body, `<meta name="robots" content="`+seo.RobotsIndex+`">`, path)
		assert.Contains(t, body, `<script type="application/ld+json">`, path)
		assert.NotContains(t, body, "googletagmanager", path)
	}
}

func TestPostPageCarriesBlogPosting(t *testing.T) {
	srv, store := newTestServer(t, testConfig(), nil)
	post := store.Site().PostsByDate()[0]

	rec := get(t, srv, "/en/blog/"+post.Slug)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"@type":"BlogPosting"`)
	assert.Contains(t, body, `"datePublished":"`+post.Date+`"`)
	assert.Contains(t, body, `<meta property="og:type" content="article">`)
	for _, tag := range post.Tags {
		assert.Contains(t, body, "<li>"+content.SlugTitle(tag)+"</li>")
	}
}

func TestUnknownRoutesRenderNotFound(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)

	tests := map[string]string{
		"/en/blog/no-such-post":     "en",
		"/ar/services/no-such-svc":  "ar",
		"/en/projects/no-such-item": "en",
		"/en/nowhere":               "en",
		"/nothing-here":             "ar",
		"/assets/missing.css":       "ar",
		"/api":                      "ar",
		"/new":                      "ar",
		"/it":                       "ar",
		"/hi":                       "ar",
	}
	for target, lang := range tests {
		rec := get(t, srv, target)
		require.Equal(t, http.StatusNotFound, rec.Code, target)
		body := rec.Body.String()
		assert.Contains(t, body, `<html lang="`+lang+`"`, target)
		assert.Contains(t, body, `<meta name="robots" content="`+seo.RobotsNoIndex+`">`, target)
	}
}

func TestSitemap(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)

	rec := get(t, srv, "/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "all", rec.Header().Get("X-Robots-Tag"))

	locs, err := seo.ParseLocs(rec.Body)
	require.NoError(t, err)
	assert.Len(t, locs, len(srv.SitemapEntries()))
	assert.NoError(t, srv.SEO().CheckSitemap(locs))
	assert.NotContains(t, locs, testOrigin+"/")
}

func TestSitemapSharedAndRefreshedOnReplace(t *testing.T) {
	srv, store := newTestServer(t, testConfig(), nil)

	var wg sync.WaitGroup
	recs := make([]*httptest.ResponseRecorder, 8)
	for i := range recs {
		recs[i] = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
		wg.Add(1)
		go func() {
			defer wg.Done()
			srv.ServeHTTP(recs[i], req)
		}()
	}
	wg.Wait()
	bodies := make([]string, len(recs))
	for i, rec := range recs {
		require.Equal(t, http.StatusOK, rec.Code)
		bodies[i] = rec.Body.String()
	}
	for _, b := range bodies[1:] {
		require.Equal(t, bodies[0], b)
	}

	next := *store.Site()
	next.Posts = nil
	rebuilt, err := content.Build(next)
	require.NoError(t, err)
	require.NotNil(t, srv.sitemap.Load())
	store.Replace(rebuilt)
	assert.Nil(t, srv.sitemap.Load())

	after := get(t, srv, "/sitemap.xml").Body.String()
	assert.NotEqual(t, bodies[0], after)
	assert.NotContains(t, after, "/blog/")
}

func TestRobots(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)
	rec := get(t, srv, "/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "User-agent: *\nAllow: /\n\nSitemap: https://example.com/sitemap.xml\n", rec.Body.String())
}

func TestLLMsText(t *testing.T) {
	srv, store := newTestServer(t, testConfig(), nil)
	rec := get(t, srv, "/llms.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "# "+store.Site().Profile.Name.In(i18n.Arabic)))
	assert.Contains(t, body, "("+testOrigin+"/ar/about)")
	for _, svc := range store.Site().Services {
		assert.Contains(t, body, testOrigin+"/ar/services/"+svc.Slug)
	}
}

func TestStaticAndVerificationFiles(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)

	rec := get(t, srv, "/assets/site.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	rec = get(t, srv, "/favicon.svg")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = get(t, srv, "/google1234abcd.html")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "google-site-verification: google1234abcd.html", rec.Body.String())

	rec = get(t, srv, "/assets")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticFilesListing(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)
	files, err := srv.StaticFiles()
	require.NoError(t, err)
	assert.Contains(t, files, "/assets/site.css")
	assert.Contains(t, files, "/og-cover.png")
	assert.Equal(t, []string{"/llms.txt", "/robots.txt", "/sitemap.xml", "/google1234abcd.html"}, srv.RootFiles())
}

func TestAnalyticsSnippet(t *testing.T) {
	cfg := testConfig()
	cfg.AnalyticsID = "G-TEST123"
	srv, _ := newTestServer(t, cfg, nil)

	body := get(t, srv, "/en").Body.String()
	assert.Contains(t, body, `https://www.googletagmanager.com/gtag/js?id=G-TEST123`)
	assert.Contains(t, body, `gtag("config","G-TEST123")`)
}

func TestContactWithoutStore(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)

	page := get(t, srv, "/en/contact")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "The contact form is unavailable right now.")
	assert.NotContains(t, page.Body.String(), "<form")

	rec := postForm(t, srv, "/en/contact", url.Values{"name": {""}})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestContactSubmission(t *testing.T) {
	inquiries := NewInquiryStore(newTestDB(t), "sqlite")
	srv, _ := newTestServer(t, testConfig(), inquiries)
	ctx := t.Context()

	page := get(t, srv, "/en/contact")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `name="submission_id"`)

	id := uuid.NewString()
	form := url.Values{
		"submission_id": {id},
		"name":          {"Sara"},
		"email":         {"sara@example.com"},
		"message":       {"I need a bilingual landing page."},
	}
	rec := postForm(t, srv, "/en/contact", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/en/contact?sent=1", rec.Header().Get("Location"))

	stored, err := inquiries.Get(ctx, uuid.MustParse(id))
	require.NoError(t, err)
	assert.Equal(t, i18n.English, stored.Locale)
	assert.Equal(t, "Sara", stored.Name)

	// a resubmission of the same form is accepted once
	rec = postForm(t, srv, "/en/contact", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	n, err := inquiries.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	sent := get(t, srv, "/en/contact?sent=1")
	require.Equal(t, http.StatusOK, sent.Code)
	assert.Contains(t, sent.Body.String(), "Thanks! Your message was received.")
}

func TestContactValidation(t *testing.T) {
	inquiries := NewInquiryStore(newTestDB(t), "sqlite")
	srv, _ := newTestServer(t, testConfig(), inquiries)

	rec := postForm(t, srv, "/ar/contact", url.Values{
		"name":    {"Omar"},
		"email":   {"not-an-email"},
		"message": {"short"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="ar"`)
	assert.Contains(t, body, "أدخل بريداً إلكترونياً صحيحاً.")
	assert.Contains(t, body, "يرجى كتابة المزيد من التفاصيل.")
	assert.Contains(t, body, `value="Omar"`)

	n, err := inquiries.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestContactHoneypot(t *testing.T) {
	inquiries := NewInquiryStore(newTestDB(t), "sqlite")
	srv, _ := newTestServer(t, testConfig(), inquiries)

	rec := postForm(t, srv, "/en/contact", url.Values{
		"name":    {"Bot"},
		"email":   {"bot@example.com"},
		"message": {"buy cheap things now"},
		"website": {"http://spam.example"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	n, err := inquiries.Count(t.Context())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestContactPostToUnknownLocale(t *testing.T) {
	inquiries := NewInquiryStore(newTestDB(t), "sqlite")
	srv, _ := newTestServer(t, testConfig(), inquiries)
	rec := postForm(t, srv, "/fr/contact", url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	site, err := content.Embedded()
	require.NoError(t, err)
	srv, err := NewServer(testConfig(), content.NewStore(site), nil, zap.New(core))
	require.NoError(t, err)

	get(t, srv, "/en/about")
	get(t, srv, "/en/nope")

	entries := logs.FilterMessage("request").AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, "/en/about", entries[0].ContextMap()["path"])
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])
}

func TestRecoverPanics(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), nil)
	h := srv.recoverPanics(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := get(t, h, "/en")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "internal server error")
}
