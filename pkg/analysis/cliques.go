package analysis

// CliqueCounts returns, per node, the number of maximal cliques of size at
// least minSize that contain it. Enumeration is Bron-Kerbosch with pivot
// selection on the unweighted graph; self-loops are ignored. A minSize
// below 1 falls back to the default of 3.
func CliqueCounts(g *Graph, minSize int, progress ProgressFunc) []int {
	if minSize < 1 {
		minSize = defaultCliquesMinSize
	}
	n := g.NumNodes()
	counts := make([]int, n)
	if n == 0 {
		progress.report(1)
		return counts
	}

	e := &cliqueEnum{g: g, minSize: minSize, counts: counts}

	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	e.expand(nil, p, nil)

	progress.report(1)
	return counts
}

// cliqueEnum carries the shared state of one Bron-Kerbosch run.
type cliqueEnum struct {
	g       *Graph
	minSize int
	counts  []int
}

// expand reports maximal cliques extending r using candidates p and
// exclusions x. Both p and x shrink as the recursion descends; candidate
// order is ascending node index throughout, which keeps enumeration
// deterministic.
func (e *cliqueEnum) expand(r, p, x []int) {
	if len(p) == 0 && len(x) == 0 {
		if len(r) >= e.minSize {
			for _, v := range r {
				e.counts[v]++
			}
		}
		return
	}

	pivot := e.pickPivot(p, x)

	// Branch only on candidates not adjacent to the pivot.
	branch := make([]int, 0, len(p))
	for _, v := range p {
		if !e.g.HasEdge(pivot, v) {
			branch = append(branch, v)
		}
	}

	for _, v := range branch {
		nextP := intersectAdjacent(e.g, p, v)
		nextX := intersectAdjacent(e.g, x, v)
		e.expand(append(r[:len(r):len(r)], v), nextP, nextX)

		p = removeOne(p, v)
		x = append(x, v)
	}
}

// pickPivot chooses the vertex of p ∪ x with the most candidate neighbours,
// ties broken by ascending index.
func (e *cliqueEnum) pickPivot(p, x []int) int {
	best, bestDeg := -1, -1
	consider := func(u int) {
		deg := 0
		for _, v := range p {
			if e.g.HasEdge(u, v) {
				deg++
			}
		}
		if deg > bestDeg || (deg == bestDeg && (best == -1 || u < best)) {
			best, bestDeg = u, deg
		}
	}
	for _, u := range p {
		consider(u)
	}
	for _, u := range x {
		consider(u)
	}
	return best
}

// intersectAdjacent returns the members of set adjacent to v, preserving
// order.
func intersectAdjacent(g *Graph, set []int, v int) []int {
	out := make([]int, 0, len(set))
	for _, u := range set {
		if g.HasEdge(u, v) {
			out = append(out, u)
		}
	}
	return out
}

// removeOne returns set without the first occurrence of v, preserving order.
func removeOne(set []int, v int) []int {
	for i, u := range set {
		if u == v {
			return append(set[:i:i], set[i+1:]...)
		}
	}
	return set
}
