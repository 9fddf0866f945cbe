package analysis

import (
	"fmt"

	"github.com/guinetik/netstats/pkg/debug"
	"github.com/guinetik/netstats/pkg/metrics"
)

// Feature names one computable per-node metric. The set is closed; the
// facade rejects anything else before doing work.
type Feature string

const (
	FeatureDegree      Feature = "degree"
	FeatureEigenvector Feature = "eigenvector"
	FeatureBetweenness Feature = "betweenness"
	FeatureClustering  Feature = "clustering"
	FeatureCliques     Feature = "cliques"
	FeatureModularity  Feature = "modularity"
)

// AllFeatures lists every feature in canonical order.
func AllFeatures() []Feature {
	return []Feature{
		FeatureDegree,
		FeatureEigenvector,
		FeatureBetweenness,
		FeatureClustering,
		FeatureCliques,
		FeatureModularity,
	}
}

// ParseFeature validates a feature name.
func ParseFeature(name string) (Feature, error) {
	f := Feature(name)
	switch f {
	case FeatureDegree, FeatureEigenvector, FeatureBetweenness,
		FeatureClustering, FeatureCliques, FeatureModularity:
		return f, nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnknownFeature)
}

// progressWeight reflects each kernel's empirical share of a full run;
// the facade blends per-kernel progress proportionally to these.
var progressWeight = map[Feature]float64{
	FeatureDegree:      0.02,
	FeatureClustering:  0.03,
	FeatureCliques:     0.10,
	FeatureEigenvector: 0.15,
	FeatureModularity:  0.25,
	FeatureBetweenness: 0.45,
}

// NodeStats is one output record. Fields for unrequested features stay at
// their zero values.
type NodeStats struct {
	ID             string  `json:"id" yaml:"id"`
	Degree         int     `json:"degree" yaml:"degree"`
	WeightedDegree float64 `json:"weighted_degree" yaml:"weighted_degree"`
	Eigenvector    float64 `json:"eigenvector" yaml:"eigenvector"`
	Betweenness    float64 `json:"betweenness" yaml:"betweenness"`
	Clustering     float64 `json:"clustering" yaml:"clustering"`
	Cliques        int     `json:"cliques" yaml:"cliques"`
	Community      int     `json:"modularity" yaml:"modularity"`
}

// Result bundles the per-node records with the request that produced them,
// so export rims can honour the zero-fill policy.
type Result struct {
	Nodes    []NodeStats
	Features []Feature
	ZeroFill bool
}

// Analyze builds the graph from edges and computes the requested features,
// returning one record per node in node-index (first-seen) order. A nil or
// empty features slice computes everything. cfg may be nil for defaults.
//
// Analyze is pure: identical inputs yield identical outputs. If any kernel
// fails the whole call fails; no partial results are returned.
func Analyze(edges []Edge, features []Feature, cfg *AnalysisConfig) (*Result, error) {
	return AnalyzeWithNodes(nil, edges, features, cfg)
}

// AnalyzeWithNodes is Analyze with a set of pre-registered node identifiers,
// letting callers carry isolated nodes through the analysis (the nodes/links
// documents of visualisation front-ends declare nodes separately).
func AnalyzeWithNodes(nodes []string, edges []Edge, features []Feature, cfg *AnalysisConfig) (*Result, error) {
	conf := DefaultConfig()
	if cfg != nil {
		conf = *cfg
	}
	if len(features) == 0 {
		features = conf.Features
	}
	if len(features) == 0 {
		features = AllFeatures()
	}

	want := make(map[Feature]bool, len(features))
	ordered := make([]Feature, 0, len(features))
	for _, f := range features {
		if _, err := ParseFeature(string(f)); err != nil {
			return nil, err
		}
		if !want[f] {
			want[f] = true
			ordered = append(ordered, f)
		}
	}

	g, err := BuildGraphWithNodes(nodes, edges)
	if err != nil {
		return nil, err
	}
	if conf.Verbose {
		debug.Log("analyze: %s features=%v", g, ordered)
	}

	records := make([]NodeStats, g.NumNodes())
	for i := range records {
		records[i].ID = g.ID(i)
	}

	// Blend per-kernel progress by empirical cost share.
	totalWeight := 0.0
	for _, f := range ordered {
		totalWeight += progressWeight[f]
	}
	offset := 0.0
	kernelProgress := func(f Feature) ProgressFunc {
		if conf.Progress == nil || totalWeight == 0 {
			return nil
		}
		span := progressWeight[f] / totalWeight
		p := conf.Progress.scaled(offset, span)
		offset += span
		return p
	}

	// Kernels run in canonical order so progress composes the same way
	// for a given feature set regardless of request order.
	for _, f := range AllFeatures() {
		if !want[f] {
			continue
		}
		stop := metrics.Timer("kernel." + string(f))
		p := kernelProgress(f)
		switch f {
		case FeatureDegree:
			unweighted, weighted := DegreeCounts(g)
			for i := range records {
				records[i].Degree = unweighted[i]
				records[i].WeightedDegree = weighted[i]
			}
			p.report(1)
		case FeatureEigenvector:
			values, err := Eigenvector(g, EigenvectorOptions{
				MaxIter:   conf.EigenvectorMaxIter,
				Tolerance: conf.EigenvectorTolerance,
			}, p)
			if err != nil {
				stop()
				return nil, err
			}
			for i := range records {
				records[i].Eigenvector = values[i]
			}
		case FeatureBetweenness:
			values := Betweenness(g, p)
			for i := range records {
				records[i].Betweenness = values[i]
			}
		case FeatureClustering:
			values := Clustering(g)
			for i := range records {
				records[i].Clustering = values[i]
			}
			p.report(1)
		case FeatureCliques:
			counts := CliqueCounts(g, conf.CliquesMinSize, p)
			for i := range records {
				records[i].Cliques = counts[i]
			}
		case FeatureModularity:
			comm := louvainRun(g, initPartition(g, conf.LouvainInitialPartition), conf.LouvainTolerance, p)
			for i := range records {
				records[i].Community = comm[i]
			}
		}
		stop()
		if conf.Verbose {
			debug.Log("analyze: %s done", f)
		}
	}

	conf.Progress.report(1)
	return &Result{Nodes: records, Features: ordered, ZeroFill: conf.ZeroFill}, nil
}
