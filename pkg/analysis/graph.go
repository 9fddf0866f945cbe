package analysis

import (
	"fmt"
	"sort"
)

// halfEdge is one adjacency-list entry: the neighbour's dense index and the
// coalesced weight of the undirected edge.
type halfEdge struct {
	to     int
	weight float64
}

// Graph is the canonical in-memory representation shared by every kernel.
// It is built once from an edge list and never mutated afterwards.
//
// Node identifiers are interned into dense integer indices in first-seen
// order; all inner loops work on integers and results are remapped to the
// caller's identifiers at the rim. Self-loops live in a separate table,
// never in the adjacency lists. The strength vector counts self-loops twice
// per the standard modularity convention, while the total weight m counts
// every undirected edge (self-loops included) once, so that
// sum(strength) == 2m.
type Graph struct {
	ids      []string       // dense index -> caller identifier, first-seen order
	index    map[string]int // caller identifier -> dense index
	adj      [][]halfEdge   // sorted by neighbour index
	selfLoop []float64      // self-loop weight per node
	strength []float64      // k[i], self-loops counted twice
	total    float64        // m, each undirected edge counted once
}

// pairKey identifies an unordered node pair with lo <= hi.
type pairKey struct {
	lo, hi int
}

// BuildGraph interns the identifiers appearing in edges and materialises the
// adjacency structure. It fails with ErrInvalidWeight if any edge weight is
// negative or non-finite.
func BuildGraph(edges []Edge) (*Graph, error) {
	return BuildGraphWithNodes(nil, edges)
}

// BuildGraphWithNodes is BuildGraph with a set of pre-registered node
// identifiers. Nodes are interned in slice order before any edge endpoint,
// which lets callers carry isolated nodes through the analysis. Identifiers
// appearing both in nodes and in edges are interned once.
func BuildGraphWithNodes(nodes []string, edges []Edge) (*Graph, error) {
	g := &Graph{index: make(map[string]int, len(nodes)+len(edges))}

	for _, id := range nodes {
		g.intern(id)
	}

	// Coalesce duplicate unordered pairs before materialising adjacency.
	pairs := make(map[pairKey]float64, len(edges))
	var order []pairKey // first-seen order, for deterministic accumulation

	for _, e := range edges {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		u := g.intern(e.Source)
		v := g.intern(e.Target)
		if u == v {
			// Self-loop: once in m, twice in strength, never in adjacency.
			g.growTo(len(g.ids))
			g.selfLoop[u] += e.Weight
			g.strength[u] += 2 * e.Weight
			g.total += e.Weight
			continue
		}
		k := pairKey{lo: u, hi: v}
		if k.lo > k.hi {
			k.lo, k.hi = k.hi, k.lo
		}
		if _, seen := pairs[k]; !seen {
			order = append(order, k)
		}
		pairs[k] += e.Weight
	}

	g.growTo(len(g.ids))

	for _, k := range order {
		w := pairs[k]
		g.adj[k.lo] = append(g.adj[k.lo], halfEdge{to: k.hi, weight: w})
		g.adj[k.hi] = append(g.adj[k.hi], halfEdge{to: k.lo, weight: w})
		g.strength[k.lo] += w
		g.strength[k.hi] += w
		g.total += w
	}

	for i := range g.adj {
		nbrs := g.adj[i]
		sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].to < nbrs[b].to })
	}

	return g, nil
}

// intern returns the dense index for id, assigning the next free index on
// first sight.
func (g *Graph) intern(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	i := len(g.ids)
	g.ids = append(g.ids, id)
	g.index[id] = i
	return i
}

// growTo extends the per-node vectors to n entries.
func (g *Graph) growTo(n int) {
	for len(g.adj) < n {
		g.adj = append(g.adj, nil)
		g.selfLoop = append(g.selfLoop, 0)
		g.strength = append(g.strength, 0)
	}
}

// NumNodes returns the number of distinct nodes.
func (g *Graph) NumNodes() int { return len(g.ids) }

// NumEdges returns the number of distinct undirected edges, self-loops
// included.
func (g *Graph) NumEdges() int {
	n := 0
	for i, nbrs := range g.adj {
		for _, he := range nbrs {
			if he.to > i {
				n++
			}
		}
		if g.selfLoop[i] > 0 {
			n++
		}
	}
	return n
}

// IDs returns the node identifiers in dense-index order. The returned slice
// is shared; callers must not modify it.
func (g *Graph) IDs() []string { return g.ids }

// ID returns the caller identifier for a dense index.
func (g *Graph) ID(i int) string { return g.ids[i] }

// Index returns the dense index of an identifier, if present.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// TotalWeight returns m: the sum of all edge weights, each undirected edge
// and each self-loop counted once.
func (g *Graph) TotalWeight() float64 { return g.total }

// Strength returns k[i]: the sum of weights incident to node i, self-loops
// counted twice.
func (g *Graph) Strength(i int) float64 { return g.strength[i] }

// SelfLoop returns the summed self-loop weight of node i.
func (g *Graph) SelfLoop(i int) float64 { return g.selfLoop[i] }

// Degree returns the number of distinct neighbours of node i, self-loops
// excluded.
func (g *Graph) Degree(i int) int { return len(g.adj[i]) }

// Neighbors calls fn for each neighbour of node i in ascending index order
// with the coalesced edge weight.
func (g *Graph) Neighbors(i int, fn func(j int, w float64)) {
	for _, he := range g.adj[i] {
		fn(he.to, he.weight)
	}
}

// findHalfEdge locates j in i's sorted adjacency list.
func (g *Graph) findHalfEdge(i, j int) (halfEdge, bool) {
	nbrs := g.adj[i]
	lo, hi := 0, len(nbrs)
	for lo < hi {
		mid := (lo + hi) / 2
		if nbrs[mid].to < j {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(nbrs) && nbrs[lo].to == j {
		return nbrs[lo], true
	}
	return halfEdge{}, false
}

// EdgeWeight returns the coalesced weight between i and j, or 0 when no such
// edge exists. For i == j it returns the self-loop weight.
func (g *Graph) EdgeWeight(i, j int) float64 {
	if i == j {
		return g.selfLoop[i]
	}
	he, _ := g.findHalfEdge(i, j)
	return he.weight
}

// HasEdge reports whether a (non-loop) edge between i and j exists,
// zero-weight edges included.
func (g *Graph) HasEdge(i, j int) bool {
	if i == j {
		return false
	}
	_, ok := g.findHalfEdge(i, j)
	return ok
}

// Edges reconstructs the canonical coalesced edge list, one entry per
// undirected pair and per non-zero self-loop. Each entry carries the smaller
// identifier as Source, and the list is sorted by (Source, Target), so the
// order does not depend on interning order. Feeding the result back through
// BuildGraph yields a graph with the same edges, weights and Edges() list;
// its node indices follow first appearance in the returned list.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for i, nbrs := range g.adj {
		for _, he := range nbrs {
			if he.to > i {
				s, t := g.ids[i], g.ids[he.to]
				if s > t {
					s, t = t, s
				}
				out = append(out, Edge{Source: s, Target: t, Weight: he.weight})
			}
		}
	}
	for i, w := range g.selfLoop {
		if w > 0 {
			out = append(out, Edge{Source: g.ids[i], Target: g.ids[i], Weight: w})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Source != out[b].Source {
			return out[a].Source < out[b].Source
		}
		return out[a].Target < out[b].Target
	})
	return out
}

// components labels nodes with connected-component ids in [0, count) and
// returns the labels with the component count. Component ids follow the
// smallest member index.
func (g *Graph) components() (labels []int, count int) {
	n := g.NumNodes()
	labels = make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	queue := make([]int, 0, n)
	for start := 0; start < n; start++ {
		if labels[start] != -1 {
			continue
		}
		labels[start] = count
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, he := range g.adj[v] {
				if labels[he.to] == -1 {
					labels[he.to] = count
					queue = append(queue, he.to)
				}
			}
		}
		count++
	}
	return labels, count
}

// String summarises the graph for diagnostics.
func (g *Graph) String() string {
	return fmt.Sprintf("graph{nodes: %d, edges: %d, m: %g}", g.NumNodes(), g.NumEdges(), g.total)
}
