package main

import (
	"errors"
	"reflect"
	"testing"

	"github.com/guinetik/netstats/pkg/analysis"
	"github.com/guinetik/netstats/pkg/config"
)

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" degree, modularity ,,betweenness ")
	want := []string{"degree", "modularity", "betweenness"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitCSV = %v, want %v", got, want)
	}
	if out := splitCSV(""); out != nil {
		t.Errorf("splitCSV(\"\") = %v, want nil", out)
	}
}

func TestResolveFeaturesFlagWins(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analysis.Features = []string{"cliques"}
	features, err := resolveFeatures("degree,modularity", cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := []analysis.Feature{analysis.FeatureDegree, analysis.FeatureModularity}
	if !reflect.DeepEqual(features, want) {
		t.Errorf("features = %v, want %v", features, want)
	}
}

func TestResolveFeaturesFallsBackToConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Analysis.Features = []string{"clustering"}
	features, err := resolveFeatures("", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(features, []analysis.Feature{analysis.FeatureClustering}) {
		t.Errorf("features = %v", features)
	}
}

func TestResolveFeaturesRejectsUnknown(t *testing.T) {
	_, err := resolveFeatures("degree,hits", config.DefaultConfig())
	if !errors.Is(err, analysis.ErrUnknownFeature) {
		t.Errorf("err = %v, want ErrUnknownFeature", err)
	}
}

func TestAnalysisConfigOverrides(t *testing.T) {
	run := runOptions{zeroFill: true, cfg: config.DefaultConfig()}
	run.cfg.Analysis.LouvainTolerance = 1e-5
	run.cfg.Analysis.CliquesMinSize = 4
	cfg := analysisConfig(run)
	if cfg.LouvainTolerance != 1e-5 {
		t.Errorf("LouvainTolerance = %v", cfg.LouvainTolerance)
	}
	if cfg.CliquesMinSize != 4 {
		t.Errorf("CliquesMinSize = %v", cfg.CliquesMinSize)
	}
	if !cfg.ZeroFill {
		t.Error("ZeroFill lost")
	}
}

func TestTruncateID(t *testing.T) {
	if got := truncateID("short", 16); got != "short" {
		t.Errorf("truncateID(short) = %q", got)
	}
	if got := truncateID("averyveryverylongnodeident", 16); len([]rune(got)) != 16 {
		t.Errorf("truncated length = %d (%q)", len([]rune(got)), got)
	}
}
