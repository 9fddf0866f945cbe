package analysis

import "sort"

// Modularity returns the quality Q of a partition, supplied as per-index
// community labels:
//
//	Q = (1/2m) Σ_ij [A_ij − k_i·k_j/2m] δ(c_i, c_j)
//
// Self-loops contribute their stored weight on the diagonal. Labels may be
// arbitrary ints; only equality matters. An edgeless graph scores 0.
func Modularity(g *Graph, communities []int) float64 {
	m2 := 2 * g.TotalWeight()
	if m2 == 0 {
		return 0
	}

	// Per-community internal weight (ordered pairs: each non-loop intra
	// edge twice, each self-loop once) and total strength.
	in := make(map[int]float64)
	tot := make(map[int]float64)
	for i := 0; i < g.NumNodes(); i++ {
		c := communities[i]
		tot[c] += g.Strength(i)
		in[c] += g.SelfLoop(i)
		for _, he := range g.adj[i] {
			if communities[he.to] == c {
				in[c] += he.weight
			}
		}
	}

	// Sum in ascending label order so the result is reproducible bit for
	// bit across calls.
	labels := make([]int, 0, len(in))
	for c := range in {
		labels = append(labels, c)
	}
	sort.Ints(labels)

	q := 0.0
	for _, c := range labels {
		frac := tot[c] / m2
		q += in[c]/m2 - frac*frac
	}
	return q
}
