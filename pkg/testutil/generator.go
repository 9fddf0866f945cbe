// Package testutil provides test fixture generators for various graph
// topologies. All generators produce deterministic output for reproducible
// tests and benchmarks.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/guinetik/netstats/pkg/analysis"
)

// Triangle returns the three-node cycle used throughout the scenario tests.
func Triangle() []analysis.Edge {
	return []analysis.Edge{
		analysis.E("n0", "n1"),
		analysis.E("n1", "n2"),
		analysis.E("n2", "n0"),
	}
}

// Path returns a simple path n0-n1-...-n(n-1).
func Path(n int) []analysis.Edge {
	edges := make([]analysis.Edge, 0, n-1)
	for i := 1; i < n; i++ {
		edges = append(edges, analysis.E(node(i-1), node(i)))
	}
	return edges
}

// Star returns a hub connected to n-1 leaves.
func Star(n int) []analysis.Edge {
	edges := make([]analysis.Edge, 0, n-1)
	for i := 1; i < n; i++ {
		edges = append(edges, analysis.E(node(0), node(i)))
	}
	return edges
}

// Ring returns the cycle n0-n1-...-n(n-1)-n0.
func Ring(n int) []analysis.Edge {
	edges := Path(n)
	return append(edges, analysis.E(node(n-1), node(0)))
}

// Complete returns the complete graph on n nodes.
func Complete(n int) []analysis.Edge {
	var edges []analysis.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, analysis.E(node(i), node(j)))
		}
	}
	return edges
}

// BridgedTriangles returns two triangles joined by a weak bridge, the
// canonical two-community fixture.
func BridgedTriangles() []analysis.Edge {
	return []analysis.Edge{
		analysis.E("n0", "n1"), analysis.E("n1", "n2"), analysis.E("n2", "n0"),
		analysis.E("n3", "n4"), analysis.E("n4", "n5"), analysis.E("n5", "n3"),
		analysis.WE("n0", "n3", 0.1),
	}
}

// RandomSparse returns a connected-ish random graph with roughly avgDegree
// edges per node. The same seed always yields the same graph.
func RandomSparse(n, avgDegree int, seed int64) []analysis.Edge {
	rng := rand.New(rand.NewSource(seed))
	var edges []analysis.Edge
	// Spanning chain first so most of the graph is one component.
	for i := 1; i < n; i++ {
		edges = append(edges, analysis.E(node(i-1), node(i)))
	}
	extra := n * (avgDegree - 2) / 2
	for k := 0; k < extra; k++ {
		u := rng.Intn(n)
		v := rng.Intn(n)
		if u == v {
			continue
		}
		w := 0.5 + rng.Float64()
		edges = append(edges, analysis.WE(node(u), node(v), w))
	}
	return edges
}

// Communities returns c dense clusters of size each, sparsely bridged, for
// exercising Louvain at scale.
func Communities(c, size int, seed int64) []analysis.Edge {
	rng := rand.New(rand.NewSource(seed))
	var edges []analysis.Edge
	for ci := 0; ci < c; ci++ {
		base := ci * size
		for i := 0; i < size; i++ {
			for j := i + 1; j < size; j++ {
				if rng.Float64() < 0.8 {
					edges = append(edges, analysis.E(node(base+i), node(base+j)))
				}
			}
		}
		if ci > 0 {
			edges = append(edges, analysis.WE(node(base-size), node(base), 0.1))
		}
	}
	return edges
}

func node(i int) string {
	return fmt.Sprintf("n%d", i)
}
