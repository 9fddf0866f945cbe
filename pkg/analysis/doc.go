// Package analysis implements the netstats network-analysis engine: a
// canonical in-memory representation for weighted undirected graphs plus a
// fixed family of per-node structural metrics (degree, eigenvector
// centrality, betweenness centrality, local clustering, maximal-clique
// counts) and Louvain community detection.
//
// The engine is pure computation. Given the same edge list and options it
// produces the same results, bit for bit; the only side effect a kernel may
// perform is reporting progress through an optional callback. All kernels
// run synchronously on the caller's goroutine — hosts that want the work off
// their hot path wrap the engine with pkg/worker.
//
// Entry points:
//
//	res, err := analysis.Analyze(edges, features, nil) // res.Nodes: one record per node
//
// or, for community detection alone, the setter-then-execute Louvain
// surface:
//
//	l := analysis.NewLouvain()
//	l.SetNodes(nodes)
//	l.SetEdges(edges)
//	communities, err := l.Execute()
package analysis
