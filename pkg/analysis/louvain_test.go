package analysis_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/guinetik/netstats/pkg/analysis"
)

func executeLouvain(t *testing.T, nodes []string, edges []analysis.Edge) map[string]int {
	t.Helper()
	l := analysis.NewLouvain()
	l.SetNodes(nodes)
	if err := l.SetEdges(edges); err != nil {
		t.Fatalf("SetEdges: %v", err)
	}
	mapping, err := l.Execute()
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return mapping
}

func TestLouvainEdgesBeforeNodes(t *testing.T) {
	l := analysis.NewLouvain()
	err := l.SetEdges([]analysis.Edge{analysis.E("a", "b")})
	if !errors.Is(err, analysis.ErrPrecondition) {
		t.Errorf("err = %v, want ErrPrecondition", err)
	}
}

func TestLouvainRejectsNegativeWeight(t *testing.T) {
	l := analysis.NewLouvain()
	l.SetNodes([]string{"a", "b"})
	err := l.SetEdges([]analysis.Edge{analysis.WE("a", "b", -1)})
	if !errors.Is(err, analysis.ErrInvalidWeight) {
		t.Errorf("err = %v, want ErrInvalidWeight", err)
	}
}

func TestLouvainEmptyGraph(t *testing.T) {
	mapping := executeLouvain(t, nil, nil)
	if len(mapping) != 0 {
		t.Errorf("mapping = %v, want empty", mapping)
	}
}

func TestLouvainIsolatedNodesAreSingletons(t *testing.T) {
	mapping := executeLouvain(t, []string{"a", "b", "c"}, nil)
	seen := map[int]string{}
	for id, c := range mapping {
		if prev, dup := seen[c]; dup {
			t.Errorf("nodes %s and %s share community %d", prev, id, c)
		}
		seen[c] = id
	}
	if len(mapping) != 3 {
		t.Errorf("mapping size = %d, want 3", len(mapping))
	}
}

func TestLouvainTriangle(t *testing.T) {
	mapping := executeLouvain(t, nil, []analysis.Edge{
		analysis.E("id1", "id2"), analysis.E("id2", "id3"), analysis.E("id3", "id1"),
	})
	if mapping["id1"] != mapping["id2"] || mapping["id2"] != mapping["id3"] {
		t.Errorf("triangle split: %v", mapping)
	}
}

func TestLouvainBridgedTriangles(t *testing.T) {
	// Two triangles with a weak bridge: each triangle is one community.
	edges := []analysis.Edge{
		analysis.E("1", "2"), analysis.E("2", "3"), analysis.E("3", "1"),
		analysis.E("4", "5"), analysis.E("5", "6"), analysis.E("6", "4"),
		analysis.WE("1", "4", 0.1),
	}
	mapping := executeLouvain(t, nil, edges)
	if mapping["1"] != mapping["2"] || mapping["2"] != mapping["3"] {
		t.Errorf("first triangle split: %v", mapping)
	}
	if mapping["4"] != mapping["5"] || mapping["5"] != mapping["6"] {
		t.Errorf("second triangle split: %v", mapping)
	}
	if mapping["1"] == mapping["4"] {
		t.Errorf("triangles merged: %v", mapping)
	}
}

func TestLouvainStarSingleCommunity(t *testing.T) {
	mapping := executeLouvain(t, nil, []analysis.Edge{
		analysis.E("h", "l1"), analysis.E("h", "l2"),
		analysis.E("h", "l3"), analysis.E("h", "l4"),
	})
	for id, c := range mapping {
		if c != mapping["h"] {
			t.Errorf("node %s in community %d, hub in %d", id, c, mapping["h"])
		}
	}
}

func TestLouvainSelfLoopGraph(t *testing.T) {
	mapping := executeLouvain(t, nil, []analysis.Edge{
		analysis.WE("A", "A", 1),
		analysis.WE("A", "B", 0.5),
	})
	if len(mapping) != 2 {
		t.Fatalf("mapping = %v, want 2 entries", mapping)
	}
}

func TestLouvainTotalMapping(t *testing.T) {
	nodes := []string{"a", "b", "c", "d", "e", "f", "iso"}
	edges := []analysis.Edge{
		analysis.E("a", "b"), analysis.E("b", "c"), analysis.E("c", "a"),
		analysis.E("d", "e"), analysis.E("e", "f"), analysis.E("f", "d"),
		analysis.WE("c", "d", 0.2),
	}
	mapping := executeLouvain(t, nodes, edges)
	for _, id := range nodes {
		if _, ok := mapping[id]; !ok {
			t.Errorf("node %s missing from mapping", id)
		}
	}
}

func TestLouvainDeterministic(t *testing.T) {
	edges := []analysis.Edge{
		analysis.E("a", "b"), analysis.E("b", "c"), analysis.E("c", "a"),
		analysis.E("c", "d"), analysis.E("d", "e"), analysis.E("e", "f"),
		analysis.E("f", "d"), analysis.E("a", "f"),
	}
	first := executeLouvain(t, nil, edges)
	for run := 0; run < 5; run++ {
		if next := executeLouvain(t, nil, edges); !reflect.DeepEqual(first, next) {
			t.Fatalf("run %d diverged: %v vs %v", run, first, next)
		}
	}
}

func TestLouvainImprovesModularity(t *testing.T) {
	// The detected partition must beat (or match) singletons, dumbbell
	// style graph from the community-detection literature.
	edges := []analysis.Edge{
		analysis.E("0", "1"), analysis.E("0", "2"), analysis.E("1", "2"),
		analysis.E("2", "3"),
		analysis.E("3", "4"), analysis.E("3", "5"), analysis.E("4", "5"),
	}
	g := mustBuild(t, edges)
	mapping := executeLouvain(t, nil, edges)

	partition := make([]int, g.NumNodes())
	singletons := make([]int, g.NumNodes())
	for i := 0; i < g.NumNodes(); i++ {
		partition[i] = mapping[g.ID(i)]
		singletons[i] = i
	}
	if q, q0 := analysis.Modularity(g, partition), analysis.Modularity(g, singletons); q < q0 {
		t.Errorf("louvain Q %v below singleton Q %v", q, q0)
	}
}

func TestLouvainDumbbellPartition(t *testing.T) {
	// Two triangles joined by one edge: known optimum groups each side,
	// Q ≈ 0.357.
	edges := []analysis.Edge{
		analysis.E("0", "1"), analysis.E("0", "2"), analysis.E("1", "2"),
		analysis.E("2", "3"),
		analysis.E("3", "4"), analysis.E("3", "5"), analysis.E("4", "5"),
	}
	g := mustBuild(t, edges)
	mapping := executeLouvain(t, nil, edges)
	if mapping["0"] != mapping["1"] || mapping["1"] != mapping["2"] {
		t.Errorf("left side split: %v", mapping)
	}
	if mapping["3"] != mapping["4"] || mapping["4"] != mapping["5"] {
		t.Errorf("right side split: %v", mapping)
	}
	partition := make([]int, g.NumNodes())
	for i := 0; i < g.NumNodes(); i++ {
		partition[i] = mapping[g.ID(i)]
	}
	if q := analysis.Modularity(g, partition); q < 0.35 || q > 0.36 {
		t.Errorf("Q = %v, want ~0.357", q)
	}
}

func TestLouvainInitialPartition(t *testing.T) {
	// Seeding with the optimal partition must not break it apart.
	edges := []analysis.Edge{
		analysis.E("1", "2"), analysis.E("2", "3"), analysis.E("3", "1"),
		analysis.E("4", "5"), analysis.E("5", "6"), analysis.E("6", "4"),
		analysis.WE("1", "4", 0.1),
	}
	l := analysis.NewLouvain()
	l.SetNodes(nil)
	if err := l.SetEdges(edges); err != nil {
		t.Fatal(err)
	}
	l.SetPartitionInit(map[string]int{
		"1": 0, "2": 0, "3": 0,
		"4": 1, "5": 1, "6": 1,
	})
	mapping, err := l.Execute()
	if err != nil {
		t.Fatal(err)
	}
	if mapping["1"] != mapping["2"] || mapping["2"] != mapping["3"] ||
		mapping["4"] != mapping["5"] || mapping["5"] != mapping["6"] ||
		mapping["1"] == mapping["4"] {
		t.Errorf("seeded partition disturbed: %v", mapping)
	}
}

func TestModularityKnownValues(t *testing.T) {
	// Triangle as one community.
	g := mustBuild(t, []analysis.Edge{
		analysis.E("a", "b"), analysis.E("b", "c"), analysis.E("c", "a"),
	})
	if q := analysis.Modularity(g, []int{0, 0, 0}); !almostEqual(q, 0) {
		t.Errorf("single-community Q = %v, want 0", q)
	}
	// Singletons on the triangle: Q = -3·(1/3)² = -1/3.
	if q := analysis.Modularity(g, []int{0, 1, 2}); !almostEqual(q, -1.0/3.0) {
		t.Errorf("singleton Q = %v, want -1/3", q)
	}
}
