package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// EigenvectorOptions tunes the power iteration.
type EigenvectorOptions struct {
	MaxIter   int     // default 1000
	Tolerance float64 // L-infinity convergence threshold, default 1e-6
}

func (o EigenvectorOptions) withDefaults() EigenvectorOptions {
	if o.MaxIter <= 0 {
		o.MaxIter = defaultEigenvectorMaxIter
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultEigenvectorTolerance
	}
	return o
}

// Eigenvector computes eigenvector centrality by power iteration on the
// weighted adjacency matrix, self-loop weights on the diagonal. The
// iteration runs independently per connected component so that every
// component's scores are L2-normalised on their own; nodes without edges
// score 0. A component whose iterate collapses to the zero vector is
// re-seeded uniformly; if the iteration still produces NaN afterwards the
// kernel fails with ErrNumericFailure.
func Eigenvector(g *Graph, opts EigenvectorOptions, progress ProgressFunc) ([]float64, error) {
	opts = opts.withDefaults()
	n := g.NumNodes()
	out := make([]float64, n)
	if n == 0 || g.NumEdges() == 0 {
		progress.report(1)
		return out, nil
	}

	labels, count := g.components()
	members := make([][]int, count)
	for i, c := range labels {
		members[c] = append(members[c], i)
	}

	x := make([]float64, n)
	next := make([]float64, n)
	for c := 0; c < count; c++ {
		seedComponent(x, members[c])
	}

	reseeded := false
	for iter := 0; iter < opts.MaxIter; iter++ {
		// next = A·x, computed per component to keep normalisation local.
		for i := 0; i < n; i++ {
			sum := g.selfLoop[i] * x[i]
			for _, he := range g.adj[i] {
				sum += he.weight * x[he.to]
			}
			next[i] = sum
		}

		maxDelta := 0.0
		for c := 0; c < count; c++ {
			ms := members[c]
			norm := 0.0
			for _, i := range ms {
				norm += next[i] * next[i]
			}
			norm = math.Sqrt(norm)
			if norm == 0 {
				// Component with only zero-weight structure; re-seed and
				// let the next sweep try again.
				seedComponent(next, ms)
				maxDelta = math.Inf(1)
				continue
			}
			for _, i := range ms {
				next[i] /= norm
				if d := math.Abs(next[i] - x[i]); d > maxDelta {
					maxDelta = d
				}
			}
		}

		if floats.HasNaN(next) {
			if reseeded {
				return nil, fmt.Errorf("eigenvector iteration produced NaN after re-seed: %w", ErrNumericFailure)
			}
			reseeded = true
			for c := 0; c < count; c++ {
				seedComponent(next, members[c])
			}
			maxDelta = math.Inf(1)
		}

		copy(x, next)
		progress.report(float64(iter+1) / float64(opts.MaxIter))

		if maxDelta < opts.Tolerance {
			break
		}
	}

	// Edgeless nodes carry no centrality regardless of seeding.
	for i := 0; i < n; i++ {
		if g.Degree(i) == 0 && g.selfLoop[i] == 0 {
			x[i] = 0
		} else {
			x[i] = math.Abs(x[i])
		}
	}

	progress.report(1)
	copy(out, x)
	return out, nil
}

// seedComponent sets a uniform unit-norm start vector on the given members.
func seedComponent(x []float64, members []int) {
	if len(members) == 0 {
		return
	}
	v := 1 / math.Sqrt(float64(len(members)))
	for _, i := range members {
		x[i] = v
	}
}
