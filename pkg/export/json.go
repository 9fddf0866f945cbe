package export

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/guinetik/netstats/pkg/analysis"
)

// WriteJSON writes the per-node records to w. With the result's zero-fill
// policy on, every metric field appears in every record (the
// visualisation-compatible shape); with it off, only the requested features
// are emitted per record.
func WriteJSON(w io.Writer, result *analysis.Result) error {
	if result == nil {
		return fmt.Errorf("nothing to export: result is nil")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if result.ZeroFill {
		return enc.Encode(result.Nodes)
	}

	want := make(map[analysis.Feature]bool, len(result.Features))
	for _, f := range result.Features {
		want[f] = true
	}
	records := make([]map[string]any, len(result.Nodes))
	for i, rec := range result.Nodes {
		out := map[string]any{"id": rec.ID}
		if want[analysis.FeatureDegree] {
			out["degree"] = rec.Degree
			out["weighted_degree"] = rec.WeightedDegree
		}
		if want[analysis.FeatureEigenvector] {
			out["eigenvector"] = rec.Eigenvector
		}
		if want[analysis.FeatureBetweenness] {
			out["betweenness"] = rec.Betweenness
		}
		if want[analysis.FeatureClustering] {
			out["clustering"] = rec.Clustering
		}
		if want[analysis.FeatureCliques] {
			out["cliques"] = rec.Cliques
		}
		if want[analysis.FeatureModularity] {
			out["modularity"] = rec.Community
		}
		records[i] = out
	}
	return enc.Encode(records)
}
