package analysis_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/guinetik/netstats/pkg/analysis"
)

// TestBetweennessMatchesGonum cross-checks the Brandes kernel against
// gonum's implementation. Conventions differ only by a constant factor
// (gonum reports unhalved, unnormalised scores), so the comparison checks
// proportionality across nodes.
func TestBetweennessMatchesGonum(t *testing.T) {
	edges := []analysis.Edge{
		analysis.E("a", "b"), analysis.E("b", "c"), analysis.E("c", "d"),
		analysis.E("d", "e"), analysis.E("e", "a"), analysis.E("b", "e"),
		analysis.E("c", "f"), analysis.E("f", "g"),
	}
	g := mustBuild(t, edges)
	ours := analysis.Betweenness(g, nil)

	gg := simple.NewUndirectedGraph()
	ids := make(map[string]int64)
	for i, id := range g.IDs() {
		ids[id] = int64(i)
		gg.AddNode(simple.Node(int64(i)))
	}
	for _, e := range edges {
		gg.SetEdge(simple.Edge{F: simple.Node(ids[e.Source]), T: simple.Node(ids[e.Target])})
	}
	theirs := network.Betweenness(gg)

	// Derive the scale from the first node with signal, then require
	// every node to agree with it.
	scale := 0.0
	for i := range ours {
		if ours[i] > 1e-12 {
			scale = theirs[int64(i)] / ours[i]
			break
		}
	}
	if scale == 0 {
		t.Fatal("no nonzero betweenness to compare")
	}
	for i := range ours {
		want := ours[i] * scale
		got := theirs[int64(i)] // missing entries are zero
		if math.Abs(got-want) > 1e-9*math.Max(1, math.Abs(want)) {
			t.Errorf("node %s: gonum %v, ours scaled %v", g.ID(i), got, want)
		}
	}
}
