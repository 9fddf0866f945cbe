package analysis

// Betweenness computes shortest-path betweenness centrality with Brandes'
// accumulation. Paths are counted on the unweighted graph: edge weights are
// ignored by this kernel, a documented property of the engine. Self-loops
// never participate in shortest paths.
//
// Undirected double-counting is corrected by halving, and scores are
// normalised by 2/((n-1)(n-2)) for n >= 3; smaller graphs report all zeros.
// Progress is reported once per finished source as sources/n.
func Betweenness(g *Graph, progress ProgressFunc) []float64 {
	n := g.NumNodes()
	scores := make([]float64, n)
	if n < 3 {
		progress.report(1)
		return scores
	}

	// Reused per-source scratch. stack holds visit order for the reverse
	// dependency sweep.
	dist := make([]int, n)
	sigma := make([]float64, n)
	delta := make([]float64, n)
	pred := make([][]int, n)
	stack := make([]int, 0, n)
	queue := make([]int, 0, n)

	for s := 0; s < n; s++ {
		for i := 0; i < n; i++ {
			dist[i] = -1
			sigma[i] = 0
			delta[i] = 0
			pred[i] = pred[i][:0]
		}
		stack = stack[:0]
		queue = append(queue[:0], s)
		dist[s] = 0
		sigma[s] = 1

		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, he := range g.adj[v] {
				w := he.to
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					pred[w] = append(pred[w], v)
				}
			}
		}

		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range pred[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				scores[w] += delta[w]
			}
		}

		progress.report(float64(s+1) / float64(n))
	}

	// Fold the undirected halving and the 2/((n-1)(n-2)) scaling into one
	// factor.
	norm := 1.0 / (float64(n-1) * float64(n-2))
	for i := range scores {
		scores[i] *= norm
	}
	return scores
}
