package analysis

import (
	"fmt"
	"sort"
	"strconv"
)

// Louvain is the setter-then-execute surface for community detection.
// SetNodes must be called before SetEdges; Execute consumes the configured
// inputs and returns a total node → community mapping. The zero value is
// not usable; construct with NewLouvain.
type Louvain struct {
	nodes     []string
	edges     []Edge
	nodesSet  bool
	initial   map[string]int
	tolerance float64
	progress  ProgressFunc
}

// NewLouvain returns a Louvain with the default tolerance.
func NewLouvain() *Louvain {
	return &Louvain{tolerance: defaultLouvainTolerance}
}

// SetNodes registers the node identifiers. Nodes absent from every edge are
// carried through as isolated singleton communities.
func (l *Louvain) SetNodes(nodes []string) {
	l.nodes = append(l.nodes[:0], nodes...)
	l.nodesSet = true
}

// SetEdges registers the edge list. Calling it before SetNodes fails with
// ErrPrecondition; a negative or non-finite weight fails with
// ErrInvalidWeight.
func (l *Louvain) SetEdges(edges []Edge) error {
	if !l.nodesSet {
		return fmt.Errorf("SetEdges before SetNodes: %w", ErrPrecondition)
	}
	for _, e := range edges {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	l.edges = append(l.edges[:0], edges...)
	return nil
}

// SetPartitionInit supplies an initial partition to seed the first local
// moving phase. Nodes missing from the map start in their own community.
func (l *Louvain) SetPartitionInit(partition map[string]int) {
	l.initial = partition
}

// SetTolerance overrides the convergence tolerance ε.
func (l *Louvain) SetTolerance(tol float64) {
	if tol > 0 {
		l.tolerance = tol
	}
}

// SetProgress installs a progress callback.
func (l *Louvain) SetProgress(fn ProgressFunc) {
	l.progress = fn
}

// Execute runs the algorithm and returns the community label per node
// identifier. Labels are dense ints assigned in ascending order of the
// lowest node index each community contains. An empty graph yields an
// empty map.
func (l *Louvain) Execute() (map[string]int, error) {
	g, err := BuildGraphWithNodes(l.nodes, l.edges)
	if err != nil {
		return nil, err
	}

	comm := louvainRun(g, initPartition(g, l.initial), l.tolerance, l.progress)

	out := make(map[string]int, g.NumNodes())
	for i, c := range comm {
		out[g.ID(i)] = c
	}
	return out, nil
}

// initPartition remaps a caller-supplied identifier → label partition onto
// dense node indices. Nodes missing from the map get fresh labels above both
// the node count and every supplied label. Returns nil for a nil partition.
func initPartition(g *Graph, partition map[string]int) []int {
	if partition == nil {
		return nil
	}
	init := make([]int, g.NumNodes())
	next := g.NumNodes()
	for _, c := range partition {
		if c >= next {
			next = c + 1
		}
	}
	for i := 0; i < g.NumNodes(); i++ {
		if c, ok := partition[g.ID(i)]; ok {
			init[i] = c
		} else {
			init[i] = next
			next++
		}
	}
	return init
}

// louvainRun is the core two-phase modularity optimisation over an already
// built graph, used by Execute and by the stats facade. init may be nil
// (every node its own community). The returned labels are dense, assigned
// ascending by lowest member index.
func louvainRun(g *Graph, init []int, tolerance float64, progress ProgressFunc) []int {
	n := g.NumNodes()
	if n == 0 {
		progress.report(1)
		return nil
	}
	if tolerance <= 0 {
		tolerance = defaultLouvainTolerance
	}

	// assignment[i] is node i's community in the current level's graph;
	// composed down to original nodes after each fold.
	assignment := make([]int, n)
	for i := range assignment {
		assignment[i] = i
	}

	level := g
	levelInit := init
	for pass := 0; ; pass++ {
		// Progress approaches 1 as levels stack up; each fold at least
		// halves the node count on graphs that are still improving.
		progress.report(1 - 1/float64(int(1)<<uint(min(pass, 30))))

		comm, improvement := oneLevel(level, levelInit, tolerance)
		comm, numComm := compressLabels(comm)

		for i := range assignment {
			assignment[i] = comm[assignment[i]]
		}

		if improvement < tolerance || numComm == level.NumNodes() {
			break
		}

		level = foldGraph(level, comm, numComm)
		levelInit = nil
	}

	progress.report(1)
	final, _ := compressLabels(assignment)
	return final
}

// oneLevel runs the local moving phase: deterministic sweeps in node-index
// order, each node greedily moved to the neighbouring community (its own
// and the empty singleton included) with the largest positive modularity
// gain, ties broken by ascending community label. Returns the labels and
// the total modularity improvement of the phase.
func oneLevel(g *Graph, init []int, tolerance float64) ([]int, float64) {
	n := g.NumNodes()
	comm := make([]int, n)
	if init != nil {
		copy(comm, init)
	} else {
		for i := range comm {
			comm[i] = i
		}
	}

	m := g.TotalWeight()
	if m == 0 {
		return comm, 0
	}

	sumTot := make(map[int]float64, n)
	size := make(map[int]int, n)
	for i := 0; i < n; i++ {
		sumTot[comm[i]] += g.Strength(i)
		size[comm[i]]++
	}
	nextLabel := 0
	for _, c := range comm {
		if c >= nextLabel {
			nextLabel = c + 1
		}
	}

	total := 0.0
	neigh := make(map[int]float64, 16)
	for {
		sweep := 0.0
		moved := false
		for i := 0; i < n; i++ {
			ki := g.Strength(i)
			old := comm[i]

			// Weight from i into each adjacent community.
			for c := range neigh {
				delete(neigh, c)
			}
			neigh[old] += 0 // candidate even when no neighbour shares it
			g.Neighbors(i, func(j int, w float64) {
				neigh[comm[j]] += w
			})

			// Remove i from its community before evaluating gains.
			sumTot[old] -= ki
			size[old]--

			// gain(c) is the ΔQ of inserting isolated i into c. The
			// empty singleton is the zero-gain baseline.
			gain := func(c int) float64 {
				return neigh[c]/m - sumTot[c]*ki/(2*m*m)
			}

			candidates := make([]int, 0, len(neigh))
			for c := range neigh {
				candidates = append(candidates, c)
			}
			sort.Ints(candidates)

			best := old
			bestGain := gain(old)
			for _, c := range candidates {
				if c == old {
					continue
				}
				if dq := gain(c); dq > bestGain || (dq == bestGain && c < best) {
					best, bestGain = c, dq
				}
			}
			if bestGain < 0 {
				// Leaving for an empty singleton beats every candidate.
				if size[old] == 0 {
					best, bestGain = old, gain(old)
				} else {
					best, bestGain = nextLabel, 0
					nextLabel++
				}
			}

			if best != old {
				moved = true
				sweep += bestGain - gain(old)
			}
			comm[i] = best
			sumTot[best] += ki
			size[best]++
		}

		total += sweep
		if !moved || sweep < tolerance {
			break
		}
	}

	return comm, total
}

// compressLabels renumbers labels densely, ascending by the lowest node
// index carrying each label, and returns the label count.
func compressLabels(comm []int) ([]int, int) {
	remap := make(map[int]int, len(comm))
	out := make([]int, len(comm))
	next := 0
	for i, c := range comm {
		d, ok := remap[c]
		if !ok {
			d = next
			remap[c] = d
			next++
		}
		out[i] = d
	}
	return out, next
}

// foldGraph builds the next level's graph: one node per community, edge
// weights aggregated between communities, intra-community weight (edges and
// member self-loops) folded into self-loops. Labels must be dense.
func foldGraph(g *Graph, comm []int, numComm int) *Graph {
	folded := &Graph{
		ids:      make([]string, numComm),
		index:    make(map[string]int, numComm),
		adj:      make([][]halfEdge, numComm),
		selfLoop: make([]float64, numComm),
		strength: make([]float64, numComm),
	}
	for c := 0; c < numComm; c++ {
		id := strconv.Itoa(c)
		folded.ids[c] = id
		folded.index[id] = c
	}

	between := make(map[pairKey]float64)
	for i := 0; i < g.NumNodes(); i++ {
		ci := comm[i]
		folded.selfLoop[ci] += g.SelfLoop(i)
		for _, he := range g.adj[i] {
			cj := comm[he.to]
			if ci == cj {
				// Each undirected intra edge visits twice; halve.
				folded.selfLoop[ci] += he.weight / 2
				continue
			}
			if he.to > i {
				k := pairKey{lo: ci, hi: cj}
				if k.lo > k.hi {
					k.lo, k.hi = k.hi, k.lo
				}
				between[k] += he.weight
			}
		}
	}

	// Materialise in sorted key order so float accumulation stays
	// reproducible run to run.
	keys := make([]pairKey, 0, len(between))
	for k := range between {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].lo != keys[b].lo {
			return keys[a].lo < keys[b].lo
		}
		return keys[a].hi < keys[b].hi
	})
	for _, k := range keys {
		w := between[k]
		folded.adj[k.lo] = append(folded.adj[k.lo], halfEdge{to: k.hi, weight: w})
		folded.adj[k.hi] = append(folded.adj[k.hi], halfEdge{to: k.lo, weight: w})
		folded.strength[k.lo] += w
		folded.strength[k.hi] += w
		folded.total += w
	}
	for c := 0; c < numComm; c++ {
		folded.strength[c] += 2 * folded.selfLoop[c]
		folded.total += folded.selfLoop[c]
		nbrs := folded.adj[c]
		sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].to < nbrs[b].to })
	}

	return folded
}
