package analysis

// DegreeCounts returns, per node in index order, the unweighted degree
// (number of distinct neighbours, self-loops excluded) and the weighted
// degree k[i] (incident weight, self-loops counted twice).
//
// The facade surfaces the unweighted count as the primary "degree" value,
// matching what visualisation consumers size nodes by, with the weighted
// value carried alongside.
func DegreeCounts(g *Graph) (unweighted []int, weighted []float64) {
	n := g.NumNodes()
	unweighted = make([]int, n)
	weighted = make([]float64, n)
	for i := 0; i < n; i++ {
		unweighted[i] = g.Degree(i)
		weighted[i] = g.Strength(i)
	}
	return unweighted, weighted
}
