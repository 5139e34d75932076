package content

import (
	"regexp"
	"slices"
	"strings"

	"portfolio/internal/i18n"
)

// PostsByDate returns the blog posts newest first.
func (s *Site) PostsByDate() []BlogPost {
	posts := slices.Clone(s.Posts)
	slices.SortStableFunc(posts, func(a, b BlogPost) int {
		return b.published.Compare(a.published)
	})
	return posts
}

// RelatedPosts returns up to n other posts ordered by shared tags, then by
// date, newest first.
func (s *Site) RelatedPosts(post BlogPost, n int) []BlogPost {
	tags := lowerSet(post.Tags)
	type scored struct {
		post    BlogPost
		overlap int
	}
	var candidates []scored
	for _, p := range s.Posts {
		if p.Slug == post.Slug {
			continue
		}
		overlap := 0
		for _, t := range p.Tags {
			if tags[strings.ToLower(t)] {
				overlap++
			}
		}
		candidates = append(candidates, scored{post: p, overlap: overlap})
	}
	slices.SortStableFunc(candidates, func(a, b scored) int {
		if a.overlap != b.overlap {
			return b.overlap - a.overlap
		}
		return b.post.published.Compare(a.post.published)
	})
	out := make([]BlogPost, 0, n)
	for _, c := range candidates {
		if len(out) == n {
			break
		}
		out = append(out, c.post)
	}
	return out
}

// topicSignal ties words found in a post to words found in a service.
type topicSignal struct {
	post    []string
	service []string
	weight  int
}

var topicSignals = []topicSignal{
	{post: []string{"seo", "سيو"}, service: []string{"seo"}, weight: 4},
	{post: []string{"performance", "سرعة", "الأداء"}, service: []string{"performance", "seo"}, weight: 3},
	{post: []string{"dashboard", "لوحة", "admin"}, service: []string{"dashboard"}, weight: 3},
	{post: []string{"e-commerce", "ecommerce", "متجر", "store"}, service: []string{"ecommerce", "online-store", "store"}, weight: 3},
	{post: []string{"landing", "صفحة", "هبوط"}, service: []string{"landing"}, weight: 2},
	{post: []string{"wordpress"}, service: []string{"wordpress"}, weight: 2},
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// RelatedServices returns up to n services ranked by how well they match the
// topic of post in locale l.
func (s *Site) RelatedServices(post BlogPost, l i18n.Locale, n int) []Service {
	blob := strings.ToLower(strings.Join([]string{
		post.Title.In(l), post.Description.In(l), post.FocusKeyword.In(l), strings.Join(post.Tags, " "),
	}, " "))
	tags := lowerSet(post.Tags)

	score := func(svc Service) int {
		key := strings.ToLower(svc.Slug + " " + svc.Title.EN)
		total := 0
		for _, sig := range topicSignals {
			if containsAny(blob, sig.post) && containsAny(key, sig.service) {
				total += sig.weight
			}
		}
		words := lowerSet(nonWord.Split(strings.ToLower(svc.Title.EN+" "+svc.Summary.EN+" "+svc.Slug), -1))
		for w := range words {
			if w != "" && tags[w] {
				total++
			}
		}
		return total
	}

	services := slices.Clone(s.Services)
	scores := make(map[string]int, len(services))
	for _, svc := range services {
		scores[svc.Slug] = score(svc)
	}
	slices.SortStableFunc(services, func(a, b Service) int {
		return scores[b.Slug] - scores[a.Slug]
	})
	if len(services) > n {
		services = services[:n]
	}
	return services
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func lowerSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, item := range items {
		m[strings.ToLower(item)] = true
	}
	return m
}
