// Package linkgraph audits the internal link structure of rendered pages.
package linkgraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const maxClusterSample = 12

// Problem kinds.
const (
	BrokenLink       = "broken-link"
	Orphan           = "orphan"
	MissingCanonical = "missing-canonical"
	WrongCanonical   = "canonical-mismatch"
	MissingLang      = "missing-lang"
	InvalidJSONLD    = "invalid-json-ld"
)

// Input is the rendered site the audit runs over.
type Input struct {
	Origin string
	// Pages maps a root-relative path to the HTML served there.
	Pages map[string][]byte
	// Files lists other paths that exist, such as assets and /sitemap.xml.
	// Links to them are not broken.
	Files []string
	// Entries are pages reached without a link, such as the locale homes.
	Entries []string
}

// Problem is one finding on one page. Kind is one of the problem kinds above.
type Problem struct {
	Kind   string `json:"kind"`
	Page   string `json:"page"`
	Detail string `json:"detail,omitempty"`
}

// String formats p as one report line.
func (p Problem) String() string {
	if p.Detail == "" {
		return p.Kind + " " + p.Page
	}
	return fmt.Sprintf("%s %s: %s", p.Kind, p.Page, p.Detail)
}

// Node is a page with its link counts and the topic cluster it falls in.
type Node struct {
	Path     string `json:"path"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
	Cluster  int    `json:"cluster"`
}

// Edge is a link from one page to another page of the site.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Cluster is a group of pages that link to each other more than to the rest
// of the site. Sample holds up to a dozen of its paths.
type Cluster struct {
	ID            int      `json:"id"`
	Size          int      `json:"size"`
	Sample        []string `json:"sample"`
	InternalLinks int      `json:"internal_links"`
	ExternalLinks int      `json:"external_links"`
}

// Totals summarizes a Graph.
type Totals struct {
	Pages    int `json:"pages"`
	Links    int `json:"links"`
	Clusters int `json:"clusters"`
	Problems int `json:"problems"`
}

// Graph is the audit result, written as the JSON snapshot.
type Graph struct {
	GeneratedAt time.Time `json:"generated_at"`
	Totals      Totals    `json:"totals"`
	Nodes       []Node    `json:"nodes"`
	Edges       []Edge    `json:"edges"`
	Clusters    []Cluster `json:"clusters"`
	Problems    []Problem `json:"problems"`
}

// OK reports whether the audit found nothing to fix.
func (g Graph) OK() bool { return len(g.Problems) == 0 }

// Build parses every page in in, links them into a graph and records the
// problems found. The graph is written to outPath as JSON when outPath is not
// empty.
func Build(in Input, outPath string) (Graph, error) {
	origin := strings.TrimSuffix(in.Origin, "/")

	paths := make([]string, 0, len(in.Pages))
	for p := range in.Pages {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	files := make(map[string]struct{}, len(in.Files))
	for _, f := range in.Files {
		files[f] = struct{}{}
	}

	var problems []Problem
	var edges []Edge
	inbound := make(map[string]int, len(paths))
	outbound := make(map[string]int, len(paths))

	for _, path := range paths {
		page, err := Parse(path, bytes.NewReader(in.Pages[path]), origin)
		if err != nil {
			return Graph{}, fmt.Errorf("parse %s: %w", path, err)
		}

		switch page.Canonical {
		case "":
			problems = append(problems, Problem{Kind: MissingCanonical, Page: path})
		case origin + path:
		default:
			problems = append(problems, Problem{Kind: WrongCanonical, Page: path, Detail: page.Canonical})
		}
		if page.Lang == "" {
			problems = append(problems, Problem{Kind: MissingLang, Page: path})
		}
		for _, msg := range page.BadJSONLD {
			problems = append(problems, Problem{Kind: InvalidJSONLD, Page: path, Detail: msg})
		}

		for _, target := range page.Links {
			if _, ok := in.Pages[target]; ok {
				edges = append(edges, Edge{Source: path, Target: target})
				outbound[path]++
				inbound[target]++
				continue
			}
			if _, ok := files[target]; ok {
				continue
			}
			problems = append(problems, Problem{Kind: BrokenLink, Page: path, Detail: target})
		}
	}

	entries := make(map[string]struct{}, len(in.Entries))
	for _, e := range in.Entries {
		entries[e] = struct{}{}
	}
	for _, path := range paths {
		if _, ok := entries[path]; ok {
			continue
		}
		if inbound[path] == 0 {
			problems = append(problems, Problem{Kind: Orphan, Page: path})
		}
	}

	assignments := clusterPages(paths, edges)

	nodes := make([]Node, len(paths))
	for i, path := range paths {
		nodes[i] = Node{
			Path:     path,
			Inbound:  inbound[path],
			Outbound: outbound[path],
			Cluster:  assignments[path],
		}
	}
	clusters := summarizeClusters(nodes, edges, assignments)

	if problems == nil {
		problems = []Problem{}
	}
	g := Graph{
		GeneratedAt: time.Now().UTC(),
		Totals: Totals{
			Pages:    len(nodes),
			Links:    len(edges),
			Clusters: len(clusters),
			Problems: len(problems),
		},
		Nodes:    nodes,
		Edges:    edges,
		Clusters: clusters,
		Problems: problems,
	}

	if outPath != "" {
		if err := write(outPath, g); err != nil {
			return Graph{}, err
		}
	}
	return g, nil
}

func summarizeClusters(nodes []Node, edges []Edge, assignments map[string]int) []Cluster {
	byID := make(map[int]*Cluster)
	members := make(map[int][]Node)
	for _, n := range nodes {
		c := byID[n.Cluster]
		if c == nil {
			c = &Cluster{ID: n.Cluster}
			byID[n.Cluster] = c
		}
		c.Size++
		members[n.Cluster] = append(members[n.Cluster], n)
	}

	for _, e := range edges {
		src, dst := assignments[e.Source], assignments[e.Target]
		if src == dst {
			byID[src].InternalLinks++
			continue
		}
		byID[src].ExternalLinks++
		byID[dst].ExternalLinks++
	}

	clusters := make([]Cluster, 0, len(byID))
	for id, c := range byID {
		ms := members[id]
		// best connected pages first
		sort.Slice(ms, func(i, j int) bool {
			if ms[i].Inbound == ms[j].Inbound {
				return ms[i].Path < ms[j].Path
			}
			return ms[i].Inbound > ms[j].Inbound
		})
		for i := 0; i < len(ms) && i < maxClusterSample; i++ {
			c.Sample = append(c.Sample, ms[i].Path)
		}
		clusters = append(clusters, *c)
	}
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Size == clusters[j].Size {
			return clusters[i].ID < clusters[j].ID
		}
		return clusters[i].Size > clusters[j].Size
	})
	return clusters
}

func write(outPath string, g Graph) error {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	return os.WriteFile(outPath, data, 0o644)
}
