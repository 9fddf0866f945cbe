package analysis

// Clustering returns the local clustering coefficient per node: the fraction
// of realised edges among a node's neighbours, 2t/(d(d-1)). Nodes with fewer
// than two neighbours score 0. Self-loops never count as neighbour edges.
func Clustering(g *Graph) []float64 {
	n := g.NumNodes()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		d := g.Degree(i)
		if d < 2 {
			continue
		}
		// Adjacency lists are sorted, so walk neighbour pairs and probe
		// each unordered pair once via binary search.
		nbrs := g.adj[i]
		triangles := 0
		for a := 0; a < len(nbrs); a++ {
			for b := a + 1; b < len(nbrs); b++ {
				if g.HasEdge(nbrs[a].to, nbrs[b].to) {
					triangles++
				}
			}
		}
		out[i] = 2 * float64(triangles) / (float64(d) * float64(d-1))
	}
	return out
}
