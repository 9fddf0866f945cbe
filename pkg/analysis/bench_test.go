package analysis_test

import (
	"testing"

	"github.com/guinetik/netstats/pkg/analysis"
	"github.com/guinetik/netstats/pkg/testutil"
)

func BenchmarkBuildGraph(b *testing.B) {
	edges := testutil.RandomSparse(500, 6, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := analysis.BuildGraph(edges); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBetweenness(b *testing.B) {
	g, err := analysis.BuildGraph(testutil.RandomSparse(200, 6, 1))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		analysis.Betweenness(g, nil)
	}
}

func BenchmarkEigenvector(b *testing.B) {
	g, err := analysis.BuildGraph(testutil.RandomSparse(500, 6, 1))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := analysis.Eigenvector(g, analysis.EigenvectorOptions{}, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLouvain(b *testing.B) {
	edges := testutil.Communities(8, 12, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := analysis.NewLouvain()
		l.SetNodes(nil)
		if err := l.SetEdges(edges); err != nil {
			b.Fatal(err)
		}
		if _, err := l.Execute(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAnalyzeAllFeatures(b *testing.B) {
	edges := testutil.RandomSparse(120, 5, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := analysis.Analyze(edges, nil, nil); err != nil {
			b.Fatal(err)
		}
	}
}
