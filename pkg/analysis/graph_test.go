package analysis_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/guinetik/netstats/pkg/analysis"
)

func mustBuild(t *testing.T, edges []analysis.Edge) *analysis.Graph {
	t.Helper()
	g, err := analysis.BuildGraph(edges)
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	return g
}

func TestBuildGraphEmpty(t *testing.T) {
	g := mustBuild(t, nil)
	if g.NumNodes() != 0 || g.NumEdges() != 0 || g.TotalWeight() != 0 {
		t.Errorf("empty graph not empty: %v", g)
	}
}

func TestBuildGraphInternsFirstSeen(t *testing.T) {
	g := mustBuild(t, []analysis.Edge{
		analysis.E("b", "a"),
		analysis.E("c", "b"),
	})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(g.IDs(), want) {
		t.Errorf("IDs() = %v, want %v", g.IDs(), want)
	}
}

func TestBuildGraphCoalescesDuplicates(t *testing.T) {
	// (a,b), (b,a) and a second (a,b) are all the same unordered pair.
	g := mustBuild(t, []analysis.Edge{
		analysis.WE("a", "b", 1),
		analysis.WE("b", "a", 2),
		analysis.WE("a", "b", 0.5),
	})
	if g.NumEdges() != 1 {
		t.Fatalf("NumEdges = %d, want 1", g.NumEdges())
	}
	ai, _ := g.Index("a")
	bi, _ := g.Index("b")
	if w := g.EdgeWeight(ai, bi); w != 3.5 {
		t.Errorf("EdgeWeight(a,b) = %v, want 3.5", w)
	}
	if g.TotalWeight() != 3.5 {
		t.Errorf("TotalWeight = %v, want 3.5", g.TotalWeight())
	}
}

func TestBuildGraphSelfLoopBookkeeping(t *testing.T) {
	// Spec scenario: edges {(A,A,1),(A,B,0.5)} gives m=1.5, k[A]=2.5, k[B]=0.5.
	g := mustBuild(t, []analysis.Edge{
		analysis.WE("A", "A", 1),
		analysis.WE("A", "B", 0.5),
	})
	ai, _ := g.Index("A")
	bi, _ := g.Index("B")
	if m := g.TotalWeight(); m != 1.5 {
		t.Errorf("m = %v, want 1.5", m)
	}
	if k := g.Strength(ai); k != 2.5 {
		t.Errorf("k[A] = %v, want 2.5", k)
	}
	if k := g.Strength(bi); k != 0.5 {
		t.Errorf("k[B] = %v, want 0.5", k)
	}
	if g.SelfLoop(ai) != 1 {
		t.Errorf("SelfLoop(A) = %v, want 1", g.SelfLoop(ai))
	}
	// Self-loops never surface as adjacency.
	if g.Degree(ai) != 1 {
		t.Errorf("Degree(A) = %d, want 1", g.Degree(ai))
	}
}

func TestBuildGraphRejectsBadWeights(t *testing.T) {
	for _, w := range []float64{-1, math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err := analysis.BuildGraph([]analysis.Edge{analysis.WE("a", "b", w)})
		if !errors.Is(err, analysis.ErrInvalidWeight) {
			t.Errorf("weight %v: err = %v, want ErrInvalidWeight", w, err)
		}
	}
}

func TestBuildGraphStrengthSumIsTwiceTotal(t *testing.T) {
	g := mustBuild(t, []analysis.Edge{
		analysis.WE("a", "b", 2),
		analysis.WE("b", "c", 0.25),
		analysis.WE("c", "c", 3),
		analysis.E("d", "a"),
	})
	sum := 0.0
	for i := 0; i < g.NumNodes(); i++ {
		sum += g.Strength(i)
	}
	if diff := math.Abs(sum - 2*g.TotalWeight()); diff > 1e-12 {
		t.Errorf("sum k = %v, 2m = %v", sum, 2*g.TotalWeight())
	}
}

func TestBuildGraphMirroredAdjacency(t *testing.T) {
	g := mustBuild(t, []analysis.Edge{
		analysis.WE("a", "b", 2),
		analysis.WE("b", "c", 1),
		analysis.WE("a", "c", 0.5),
	})
	for i := 0; i < g.NumNodes(); i++ {
		g.Neighbors(i, func(j int, w float64) {
			if back := g.EdgeWeight(j, i); back != w {
				t.Errorf("edge %d->%d weight %v not mirrored (%v)", i, j, w, back)
			}
		})
	}
}

func TestBuildGraphIdempotent(t *testing.T) {
	edges := []analysis.Edge{
		analysis.WE("a", "b", 2),
		analysis.WE("b", "a", 1),
		analysis.WE("c", "c", 0.5),
		analysis.E("b", "c"),
	}
	g1 := mustBuild(t, edges)
	g2 := mustBuild(t, g1.Edges())
	if !reflect.DeepEqual(g1.Edges(), g2.Edges()) {
		t.Errorf("rebuild changed edges:\n%v\n%v", g1.Edges(), g2.Edges())
	}
	if g1.TotalWeight() != g2.TotalWeight() || g1.NumNodes() != g2.NumNodes() {
		t.Errorf("rebuild changed totals")
	}
}

func TestBuildGraphWithNodesKeepsIsolated(t *testing.T) {
	g, err := analysis.BuildGraphWithNodes([]string{"x", "y"}, []analysis.Edge{analysis.E("y", "z")})
	if err != nil {
		t.Fatal(err)
	}
	if g.NumNodes() != 3 {
		t.Fatalf("NumNodes = %d, want 3", g.NumNodes())
	}
	xi, ok := g.Index("x")
	if !ok || g.Degree(xi) != 0 {
		t.Errorf("isolated node x missing or connected")
	}
	if g.ID(0) != "x" || g.ID(1) != "y" {
		t.Errorf("pre-registered nodes not first: %v", g.IDs())
	}
}

func TestDegreeCounts(t *testing.T) {
	g := mustBuild(t, []analysis.Edge{
		analysis.WE("h", "l1", 1),
		analysis.WE("h", "l2", 2),
		analysis.WE("h", "l3", 1),
		analysis.WE("h", "l4", 1),
	})
	unweighted, weighted := analysis.DegreeCounts(g)
	hi, _ := g.Index("h")
	if unweighted[hi] != 4 {
		t.Errorf("degree(h) = %d, want 4", unweighted[hi])
	}
	if weighted[hi] != 5 {
		t.Errorf("weighted degree(h) = %v, want 5", weighted[hi])
	}
	for _, leaf := range []string{"l1", "l2", "l3", "l4"} {
		li, _ := g.Index(leaf)
		if unweighted[li] != 1 {
			t.Errorf("degree(%s) = %d, want 1", leaf, unweighted[li])
		}
	}
}
