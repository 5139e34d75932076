package linkgraph

import "math/rand/v2"

// Pages are grouped into topic clusters with the Louvain method: nodes move
// to the neighboring community with the best modularity gain until nothing
// moves, then each community collapses into a node and the pass repeats.

type neighbor struct {
	node   int
	weight float64
}

type weightedGraph struct {
	adjacency   [][]neighbor
	degree      []float64
	loops       []float64
	totalWeight float64
}

type communities struct {
	of          []int
	degree      []float64
	internal    []float64
	nodeDegree  []float64
	loops       []float64
	totalWeight float64
}

// clusterSeed keeps cluster ids stable between audits of the same site.
const clusterSeed = 42

// clusterPages assigns every path a dense cluster id starting at zero. Links
// are treated as undirected; a page with no links forms its own cluster.
func clusterPages(paths []string, edges []Edge) map[string]int {
	result := make(map[string]int, len(paths))
	if len(paths) == 0 {
		return result
	}

	index := make(map[string]int, len(paths))
	for i, p := range paths {
		index[p] = i
	}

	rng := rand.New(rand.NewPCG(clusterSeed, uint64(len(paths))))
	partition := louvain(newWeightedGraph(len(paths), index, edges), rng)
	for p, i := range index {
		result[p] = partition[i]
	}
	return result
}

func newWeightedGraph(n int, index map[string]int, edges []Edge) weightedGraph {
	weights := make([]map[int]float64, n)
	g := weightedGraph{
		degree: make([]float64, n),
		loops:  make([]float64, n),
	}

	for _, e := range edges {
		src, okSrc := index[e.Source]
		dst, okDst := index[e.Target]
		if !okSrc || !okDst {
			continue
		}
		g.totalWeight++
		if src == dst {
			g.loops[src]++
			continue
		}
		addWeight(weights, src, dst, 1)
		addWeight(weights, dst, src, 1)
		g.degree[src]++
		g.degree[dst]++
	}

	g.adjacency = flatten(weights)
	return g
}

func addWeight(weights []map[int]float64, from, to int, w float64) {
	if weights[from] == nil {
		weights[from] = make(map[int]float64)
	}
	weights[from][to] += w
}

func flatten(weights []map[int]float64) [][]neighbor {
	adjacency := make([][]neighbor, len(weights))
	for node, targets := range weights {
		for target, w := range targets {
			adjacency[node] = append(adjacency[node], neighbor{node: target, weight: w})
		}
	}
	return adjacency
}

func louvain(g weightedGraph, rng *rand.Rand) []int {
	n := len(g.adjacency)
	// levels[i][node] is the community of node at level i
	var levels [][]int
	for {
		c := newCommunities(g)
		moved := localMoves(g, c, rng)
		partition := renumber(c.of)
		levels = append(levels, partition)
		if !moved {
			break
		}
		g = collapse(g, partition)
	}

	final := make([]int, n)
	for node := range final {
		final[node] = node
		for _, level := range levels {
			final[node] = level[final[node]]
		}
	}
	return renumber(final)
}

func newCommunities(g weightedGraph) *communities {
	n := len(g.adjacency)
	c := &communities{
		of:          make([]int, n),
		degree:      make([]float64, n),
		internal:    make([]float64, n),
		nodeDegree:  g.degree,
		loops:       g.loops,
		totalWeight: g.totalWeight,
	}
	for i := range n {
		c.of[i] = i
		c.degree[i] = g.degree[i]
		c.internal[i] = g.loops[i]
	}
	return c
}

// localMoves runs the first Louvain phase and reports whether any node
// changed community.
func localMoves(g weightedGraph, c *communities, rng *rand.Rand) bool {
	order := rng.Perm(len(g.adjacency))
	m2 := 2 * c.totalWeight
	movedAny := false

	for improved := true; improved; {
		improved = false
		for _, node := range order {
			current := c.of[node]
			links := linksByCommunity(g, c, node)
			c.remove(node, current, links[current])

			best, bestGain := current, 0.0
			if k := c.nodeDegree[node]; k > 0 && m2 > 0 {
				for community, w := range links {
					gain := w - c.degree[community]*k/m2
					if gain > bestGain || (gain == bestGain && gain > 0 && community < best) {
						best, bestGain = community, gain
					}
				}
			}

			c.insert(node, best, links[best])
			if best != current {
				improved = true
				movedAny = true
			}
		}
	}
	return movedAny
}

func linksByCommunity(g weightedGraph, c *communities, node int) map[int]float64 {
	links := make(map[int]float64, len(g.adjacency[node]))
	for _, nb := range g.adjacency[node] {
		if nb.node == node {
			continue
		}
		if community := c.of[nb.node]; community >= 0 {
			links[community] += nb.weight
		}
	}
	return links
}

func (c *communities) remove(node, community int, weight float64) {
	c.degree[community] -= c.nodeDegree[node]
	c.internal[community] -= 2*weight + c.loops[node]
	c.of[node] = -1
}

func (c *communities) insert(node, community int, weight float64) {
	c.of[node] = community
	c.degree[community] += c.nodeDegree[node]
	c.internal[community] += 2*weight + c.loops[node]
}

func renumber(partition []int) []int {
	ids := make(map[int]int, len(partition))
	out := make([]int, len(partition))
	for i, community := range partition {
		id, ok := ids[community]
		if !ok {
			id = len(ids)
			ids[community] = id
		}
		out[i] = id
	}
	return out
}

// collapse builds the graph whose nodes are the communities of partition.
func collapse(g weightedGraph, partition []int) weightedGraph {
	n := 0
	for _, community := range partition {
		n = max(n, community+1)
	}

	weights := make([]map[int]float64, n)
	out := weightedGraph{
		degree: make([]float64, n),
		loops:  make([]float64, n),
	}

	for node, neighbors := range g.adjacency {
		a := partition[node]
		for _, nb := range neighbors {
			if nb.node < node {
				continue
			}
			b := partition[nb.node]
			out.totalWeight += nb.weight
			if a == b {
				out.loops[a] += nb.weight
				out.degree[a] += 2 * nb.weight
				continue
			}
			addWeight(weights, a, b, nb.weight)
			addWeight(weights, b, a, nb.weight)
			out.degree[a] += nb.weight
			out.degree[b] += nb.weight
		}
	}
	for node, loops := range g.loops {
		out.loops[partition[node]] += loops
		out.totalWeight += loops
	}

	out.adjacency = flatten(weights)
	return out
}
