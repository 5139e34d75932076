package content

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/internal/i18n"
)

func TestEmbeddedContentIsValid(t *testing.T) {
	site, err := Embedded()
	require.NoError(t, err)

	assert.NotEmpty(t, site.Services)
	assert.NotEmpty(t, site.Projects)
	assert.NotEmpty(t, site.Posts)
	assert.NotEmpty(t, site.Reviews)

	for _, svc := range site.Services {
		got, ok := site.Service(svc.Slug)
		require.True(t, ok, svc.Slug)
		assert.Equal(t, svc.Title, got.Title)
	}
	for _, post := range site.Posts {
		assert.False(t, post.Published().IsZero(), post.Slug)
	}
}

func TestEmbeddedSlugsAreUniqueAcrossEachTable(t *testing.T) {
	site, err := Embedded()
	require.NoError(t, err)

	check := func(kind string, slugs []string) {
		seen := map[string]bool{}
		for _, s := range slugs {
			assert.False(t, seen[s], "%s slug %q duplicated", kind, s)
			seen[s] = true
		}
	}
	var services, projects, posts []string
	for _, s := range site.Services {
		services = append(services, s.Slug)
	}
	for _, p := range site.Projects {
		projects = append(projects, p.Slug)
	}
	for _, p := range site.Posts {
		posts = append(posts, p.Slug)
	}
	check("service", services)
	check("project", projects)
	check("post", posts)
}

func TestLoadMissingReviewsIsOptional(t *testing.T) {
	fsys := validFS(t)
	delete(fsys, "reviews.yaml")

	site, err := Load(fsys)
	require.NoError(t, err)
	assert.Empty(t, site.Reviews)
}

func TestLoadMissingRequiredFile(t *testing.T) {
	fsys := validFS(t)
	delete(fsys, "blog.yaml")

	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blog.yaml")
}

func TestLoadReportsEveryProblem(t *testing.T) {
	fsys := validFS(t)
	fsys["blog.yaml"] = &fstest.MapFile{Data: []byte(`
- slug: Bad Slug
  title: {en: One}
  description: {en: d, ar: د}
  date: "31/01/2026"
  blocks:
    - type: quote
- slug: Bad Slug
  title: {en: Two, ar: اثنان}
  description: {en: d, ar: د}
  date: "2026-01-31"
  blocks:
    - type: code
`)}

	_, err := Load(fsys)
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		`blog[0] "Bad Slug".slug: not canonical`,
		`blog[0] "Bad Slug".title: missing ar`,
		`blog[0] "Bad Slug".date: "31/01/2026" is not YYYY-MM-DD`,
		`unknown block type "quote"`,
		`blog[1] "Bad Slug".slug: duplicate`,
		`blog[1] "Bad Slug".blocks[0].code: empty`,
	} {
		assert.Contains(t, msg, want)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	fsys := validFS(t)
	fsys["reviews.yaml"] = &fstest.MapFile{Data: []byte(`
- id: r1
  platform: Khamsat
  rating: 5
  text: {en: Great, ar: ممتاز}
  screenshot: {src: /reviews/r1.png}
`)}

	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse reviews.yaml")
	assert.Contains(t, err.Error(), "field screenshot not found")
}

func TestLoadAcceptsEmptyReviews(t *testing.T) {
	fsys := validFS(t)
	fsys["reviews.yaml"] = &fstest.MapFile{Data: []byte("")}

	site, err := Load(fsys)
	require.NoError(t, err)
	assert.Empty(t, site.Reviews)
}

func TestValidateReviewRating(t *testing.T) {
	site := mustEmbedded(t)
	broken := *site
	broken.Reviews = []Review{{ID: "r1", Rating: 6, Text: i18n.Text{EN: "a", AR: "ب"}}}
	err := Validate(&broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating: 6 outside 1..5")
}

func TestPostsByDateNewestFirst(t *testing.T) {
	site := mustEmbedded(t)
	posts := site.PostsByDate()
	for i := 1; i < len(posts); i++ {
		assert.False(t, posts[i].Published().After(posts[i-1].Published()),
			"%s should not come after %s", posts[i].Slug, posts[i-1].Slug)
	}
}

func TestRelatedPosts(t *testing.T) {
	site := mustEmbedded(t)
	post, ok := site.Post("technical-seo-checklist-nextjs")
	require.True(t, ok)

	related := site.RelatedPosts(post, 4)
	require.NotEmpty(t, related)
	for _, p := range related {
		assert.NotEqual(t, post.Slug, p.Slug)
	}
	// the only other post sharing a tag ("seo")
	assert.Equal(t, "core-web-vitals-quick-wins", related[0].Slug)
}

func TestRelatedServices(t *testing.T) {
	site := mustEmbedded(t)
	post, ok := site.Post("technical-seo-checklist-nextjs")
	require.True(t, ok)

	services := site.RelatedServices(post, i18n.English, 3)
	require.Len(t, services, 3)
	assert.Equal(t, "seo-performance", services[0].Slug)

	landing, ok := site.Post("landing-page-that-converts")
	require.True(t, ok)
	services = site.RelatedServices(landing, i18n.Arabic, 1)
	require.Len(t, services, 1)
	assert.Equal(t, "landing-page", services[0].Slug)
}

func TestProjectTitleFallsBackToName(t *testing.T) {
	site := mustEmbedded(t)
	p, ok := site.Project("agency-landing-page")
	require.True(t, ok)
	assert.Equal(t, p.Name.In(i18n.Arabic), p.Title(i18n.Arabic))
	assert.Equal(t, p.Description.In(i18n.English), p.Summary(i18n.English))
}

func TestWhatsAppLink(t *testing.T) {
	c := Contact{WhatsApp: "201000000000"}
	assert.Equal(t, "https://wa.me/201000000000?text=hi+there", c.WhatsAppLink("hi there"))
	assert.Empty(t, Contact{}.WhatsAppLink("x"))
}

func mustEmbedded(t *testing.T) *Site {
	t.Helper()
	site, err := Embedded()
	require.NoError(t, err)
	return site
}

// validFS copies the embedded tables into a writable map filesystem.
func validFS(t *testing.T) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, name := range Files {
		data, err := dataFS.ReadFile("data/" + name)
		require.NoError(t, err)
		fsys[name] = &fstest.MapFile{Data: data}
	}
	return fsys
}

func TestFilesMatchEmbeddedData(t *testing.T) {
	entries, err := dataFS.ReadDir("data")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, Files, names, strings.Join(names, ","))
}
