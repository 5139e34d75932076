package linkgraph

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"portfolio/internal/canon"
)

// Page is what the audit reads out of one rendered HTML document.
type Page struct {
	Path      string
	Lang      string
	Canonical string
	// Links are the distinct same-site paths the page links to, in document
	// order, without query or fragment.
	Links  []string
	JSONLD []json.RawMessage
	// BadJSONLD holds the parse error of every structured-data block that is
	// not a JSON object carrying @context and @type.
	BadJSONLD []string
}

// Parse reads the rendered page served at path. origin decides which
// absolute links count as internal.
func Parse(path string, r io.Reader, origin string) (Page, error) {
	base, err := url.Parse(strings.TrimSuffix(origin, "/") + path)
	if err != nil {
		return Page{}, err
	}

	page := Page{Path: path}
	seen := make(map[string]struct{})
	inJSONLD := false

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return Page{}, err
			}
			return page, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "html":
				page.Lang = attr(tok, "lang")
			case "a":
				target, ok := internalPath(base, attr(tok, "href"))
				if !ok || target == path {
					continue
				}
				if _, dup := seen[target]; dup {
					continue
				}
				seen[target] = struct{}{}
				page.Links = append(page.Links, target)
			case "link":
				if strings.EqualFold(attr(tok, "rel"), "canonical") {
					page.Canonical = attr(tok, "href")
				}
			case "script":
				inJSONLD = attr(tok, "type") == "application/ld+json"
			}

		case html.TextToken:
			if !inJSONLD {
				continue
			}
			raw := bytes.TrimSpace(z.Text())
			if problem := checkJSONLD(raw); problem != "" {
				page.BadJSONLD = append(page.BadJSONLD, problem)
				continue
			}
			page.JSONLD = append(page.JSONLD, json.RawMessage(raw))

		case html.EndTagToken:
			inJSONLD = false
		}
	}
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// internalPath resolves href against base and returns its cleaned path when
// it stays on the same host.
func internalPath(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u := base.ResolveReference(ref)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if !strings.EqualFold(u.Host, base.Host) {
		return "", false
	}
	return canon.CleanPath(u.Path), true
}

func checkJSONLD(raw []byte) string {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err.Error()
	}
	for _, key := range []string{"@context", "@type"} {
		if v, ok := doc[key].(string); !ok || v == "" {
			return "missing " + key
		}
	}
	return ""
}
