package analysis_test

import (
	"testing"

	"github.com/guinetik/netstats/pkg/analysis"
)

func cliqueCount(t *testing.T, g *analysis.Graph, minSize int, id string) int {
	t.Helper()
	counts := analysis.CliqueCounts(g, minSize, nil)
	i, ok := g.Index(id)
	if !ok {
		t.Fatalf("unknown node %s", id)
	}
	return counts[i]
}

func TestCliquesTriangle(t *testing.T) {
	g := mustBuild(t, []analysis.Edge{
		analysis.E("a", "b"), analysis.E("b", "c"), analysis.E("c", "a"),
	})
	for _, id := range []string{"a", "b", "c"} {
		if n := cliqueCount(t, g, 3, id); n != 1 {
			t.Errorf("cliques(%s) = %d, want 1", id, n)
		}
	}
}

func TestCliquesOnlyMaximal(t *testing.T) {
	// K4 contains four triangles but only one maximal clique.
	g := mustBuild(t, []analysis.Edge{
		analysis.E("a", "b"), analysis.E("a", "c"), analysis.E("a", "d"),
		analysis.E("b", "c"), analysis.E("b", "d"), analysis.E("c", "d"),
	})
	for _, id := range []string{"a", "b", "c", "d"} {
		if n := cliqueCount(t, g, 3, id); n != 1 {
			t.Errorf("cliques(%s) = %d, want 1", id, n)
		}
	}
}

func TestCliquesSharedEdge(t *testing.T) {
	// Two triangles sharing the edge (b,c): b and c sit in both maximal
	// cliques, a and d in one each.
	g := mustBuild(t, []analysis.Edge{
		analysis.E("a", "b"), analysis.E("a", "c"),
		analysis.E("b", "c"),
		analysis.E("d", "b"), analysis.E("d", "c"),
	})
	want := map[string]int{"a": 1, "b": 2, "c": 2, "d": 1}
	for id, n := range want {
		if got := cliqueCount(t, g, 3, id); got != n {
			t.Errorf("cliques(%s) = %d, want %d", id, got, n)
		}
	}
}

func TestCliquesMinSizeThreshold(t *testing.T) {
	// A path has no triangle; with minSize 2 every edge is a maximal
	// clique, with the default 3 nothing counts.
	g := mustBuild(t, []analysis.Edge{
		analysis.E("a", "b"), analysis.E("b", "c"),
	})
	if n := cliqueCount(t, g, 3, "b"); n != 0 {
		t.Errorf("cliques(b, min 3) = %d, want 0", n)
	}
	if n := cliqueCount(t, g, 2, "b"); n != 2 {
		t.Errorf("cliques(b, min 2) = %d, want 2", n)
	}
}

func TestCliquesSelfLoopIgnored(t *testing.T) {
	g := mustBuild(t, []analysis.Edge{
		analysis.E("a", "b"), analysis.E("b", "c"), analysis.E("c", "a"),
		analysis.WE("b", "b", 4),
	})
	for _, id := range []string{"a", "b", "c"} {
		if n := cliqueCount(t, g, 3, id); n != 1 {
			t.Errorf("cliques(%s) = %d, want 1", id, n)
		}
	}
}

func TestCliquesEmpty(t *testing.T) {
	g := mustBuild(t, nil)
	if counts := analysis.CliqueCounts(g, 3, nil); len(counts) != 0 {
		t.Errorf("counts = %v, want empty", counts)
	}
}
