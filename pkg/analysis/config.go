package analysis

import (
	"os"
	"strconv"
)

// Kernel defaults. Overridable per call through AnalysisConfig and, for
// operational tuning, through NETSTATS_* environment variables.
const (
	defaultLouvainTolerance     = 1e-7
	defaultEigenvectorTolerance = 1e-6
	defaultEigenvectorMaxIter   = 1000
	defaultCliquesMinSize       = 3
)

// AnalysisConfig controls which metrics the facade computes and how the
// kernels are tuned.
type AnalysisConfig struct {
	// Features to compute. Empty means every feature.
	Features []Feature

	// Verbose emits diagnostic traces through pkg/debug.
	Verbose bool

	// ZeroFill keeps unrequested metric fields as zero values in the
	// output records (the visualisation-compatible default). Export rims
	// may instead omit them when this is false.
	ZeroFill bool

	// Louvain tuning.
	LouvainTolerance        float64        // ε, default 1e-7
	LouvainInitialPartition map[string]int // nil: each node its own community

	// Eigenvector tuning.
	EigenvectorMaxIter   int     // default 1000
	EigenvectorTolerance float64 // default 1e-6

	// Cliques tuning.
	CliquesMinSize int // count maximal cliques of at least this size, default 3

	// Progress receives blended completion fractions in [0, 1].
	Progress ProgressFunc
}

// DefaultConfig returns the standard configuration: all features, zero-fill
// on, spec-default tolerances.
func DefaultConfig() AnalysisConfig {
	return ApplyEnvOverrides(AnalysisConfig{
		ZeroFill:             true,
		LouvainTolerance:     defaultLouvainTolerance,
		EigenvectorMaxIter:   defaultEigenvectorMaxIter,
		EigenvectorTolerance: defaultEigenvectorTolerance,
		CliquesMinSize:       defaultCliquesMinSize,
	})
}

// ApplyEnvOverrides layers NETSTATS_* environment variables over cfg:
//
//	NETSTATS_LOUVAIN_TOLERANCE      float
//	NETSTATS_EIGENVECTOR_MAX_ITER   int
//	NETSTATS_EIGENVECTOR_TOLERANCE  float
//	NETSTATS_CLIQUES_MIN_SIZE       int
//	NETSTATS_VERBOSE                1/0
//
// Unparsable values are ignored.
func ApplyEnvOverrides(cfg AnalysisConfig) AnalysisConfig {
	if v := os.Getenv("NETSTATS_LOUVAIN_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.LouvainTolerance = f
		}
	}
	if v := os.Getenv("NETSTATS_EIGENVECTOR_MAX_ITER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EigenvectorMaxIter = n
		}
	}
	if v := os.Getenv("NETSTATS_EIGENVECTOR_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.EigenvectorTolerance = f
		}
	}
	if v := os.Getenv("NETSTATS_CLIQUES_MIN_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CliquesMinSize = n
		}
	}
	if v := os.Getenv("NETSTATS_VERBOSE"); v != "" {
		cfg.Verbose = v != "0"
	}
	return cfg
}
