package seo

import "strings"

// Robots renders robots.txt: every agent may crawl everything, and the
// sitemap lives at the origin root.
func Robots(origin string) string {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("\n")
	b.WriteString("Sitemap: " + strings.TrimRight(origin, "/") + "/sitemap.xml\n")
	return b.String()
}
