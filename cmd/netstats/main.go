package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"sort"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/guinetik/netstats/pkg/analysis"
	"github.com/guinetik/netstats/pkg/config"
	"github.com/guinetik/netstats/pkg/debug"
	"github.com/guinetik/netstats/pkg/export"
	"github.com/guinetik/netstats/pkg/loader"
	"github.com/guinetik/netstats/pkg/metrics"
	"github.com/guinetik/netstats/pkg/version"
	"github.com/guinetik/netstats/pkg/watcher"
)

func main() {
	input := flag.String("input", "", "Edge list file (JSON or YAML)")
	featuresFlag := flag.String("features", "", "Comma-separated features (default: all)")
	jsonOut := flag.String("json", "", "Write node records as JSON to this path ('-' for stdout)")
	sqliteOut := flag.String("sqlite", "", "Write results to a SQLite database at this path")
	svgOut := flag.String("svg", "", "Write a community-coloured SVG snapshot to this path")
	pngOut := flag.String("png", "", "Write a community-coloured PNG snapshot to this path")
	zeroFill := flag.Bool("zero-fill", true, "Zero-fill unrequested metric fields in output records")
	watch := flag.Bool("watch", false, "Re-run the analysis when the input file changes")
	verbose := flag.Bool("verbose", false, "Emit diagnostic traces to stderr")
	showTimings := flag.Bool("timings", false, "Print kernel timings after the run")
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	configPath := flag.String("config", "", "Config file (default: XDG config dir)")
	versionFlag := flag.Bool("version", false, "Show version")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help {
		fmt.Println("Usage: netstats -input edges.json [options]")
		fmt.Println("\nComputes per-node network statistics and Louvain communities.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("netstats %s\n", version.Version)
		os.Exit(0)
	}

	// CPU profiling support
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "netstats: -input is required (see -help)")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "netstats: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		cfg.Verbose = true
		debug.SetEnabled(true)
	}

	features, err := resolveFeatures(*featuresFlag, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "netstats: %v\n", err)
		os.Exit(2)
	}

	run := runOptions{
		input:       *input,
		features:    features,
		jsonOut:     *jsonOut,
		sqliteOut:   *sqliteOut,
		svgOut:      *svgOut,
		pngOut:      *pngOut,
		zeroFill:    *zeroFill,
		showTimings: *showTimings,
		cfg:         cfg,
	}

	if err := runOnce(run); err != nil {
		fmt.Fprintf(os.Stderr, "netstats: %v\n", err)
		os.Exit(1)
	}

	if !*watch {
		return
	}

	changed := make(chan struct{}, 1)
	w, err := watcher.New(*input, watcher.WithOnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	}), watcher.WithOnError(func(err error) {
		fmt.Fprintf(os.Stderr, "netstats: watch: %v\n", err)
	}))
	if err != nil {
		fmt.Fprintf(os.Stderr, "netstats: watch: %v\n", err)
		os.Exit(1)
	}
	if err := w.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "netstats: watch: %v\n", err)
		os.Exit(1)
	}
	defer w.Stop()
	fmt.Fprintf(os.Stderr, "netstats: watching %s\n", *input)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	for {
		select {
		case <-interrupt:
			return
		case <-changed:
			if err := runOnce(run); err != nil {
				fmt.Fprintf(os.Stderr, "netstats: %v\n", err)
			}
		}
	}
}

type runOptions struct {
	input       string
	features    []analysis.Feature
	jsonOut     string
	sqliteOut   string
	svgOut      string
	pngOut      string
	zeroFill    bool
	showTimings bool
	cfg         config.Config
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// resolveFeatures merges the -features flag over the config file defaults.
func resolveFeatures(flagValue string, cfg config.Config) ([]analysis.Feature, error) {
	names := splitCSV(flagValue)
	if len(names) == 0 {
		names = cfg.Analysis.Features
	}
	features := make([]analysis.Feature, 0, len(names))
	for _, name := range names {
		f, err := analysis.ParseFeature(name)
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func analysisConfig(run runOptions) analysis.AnalysisConfig {
	cfg := analysis.DefaultConfig()
	cfg.Verbose = run.cfg.Verbose
	cfg.ZeroFill = run.zeroFill
	if run.cfg.Output.ZeroFill != nil {
		cfg.ZeroFill = *run.cfg.Output.ZeroFill && run.zeroFill
	}
	if v := run.cfg.Analysis.LouvainTolerance; v > 0 {
		cfg.LouvainTolerance = v
	}
	if v := run.cfg.Analysis.EigenvectorMaxIter; v > 0 {
		cfg.EigenvectorMaxIter = v
	}
	if v := run.cfg.Analysis.EigenvectorTolerance; v > 0 {
		cfg.EigenvectorTolerance = v
	}
	if v := run.cfg.Analysis.CliquesMinSize; v > 0 {
		cfg.CliquesMinSize = v
	}
	return cfg
}

func runOnce(run runOptions) error {
	el, err := loader.Load(run.input)
	if err != nil {
		return err
	}

	cfg := analysisConfig(run)
	res, err := analysis.AnalyzeWithNodes(el.Nodes, el.Edges, run.features, &cfg)
	if err != nil {
		return err
	}

	wroteAnything := false
	if run.jsonOut != "" {
		wroteAnything = true
		if run.jsonOut == "-" {
			if err := export.WriteJSON(os.Stdout, res); err != nil {
				return err
			}
		} else {
			f, err := os.Create(run.jsonOut)
			if err != nil {
				return err
			}
			if err := export.WriteJSON(f, res); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
		}
	}
	if run.sqliteOut != "" {
		wroteAnything = true
		if err := export.NewSQLiteExporter(res, el.Edges).Export(run.sqliteOut); err != nil {
			return err
		}
	}
	if run.svgOut != "" {
		wroteAnything = true
		if err := export.SaveGraphSnapshot(export.GraphSnapshotOptions{
			Path: run.svgOut, Format: "svg", Result: res, Edges: el.Edges,
		}); err != nil {
			return err
		}
	}
	if run.pngOut != "" {
		wroteAnything = true
		if err := export.SaveGraphSnapshot(export.GraphSnapshotOptions{
			Path: run.pngOut, Format: "png", Result: res, Edges: el.Edges,
		}); err != nil {
			return err
		}
	}

	if !wroteAnything || run.jsonOut != "-" {
		isTTY := term.IsTerminal(int(os.Stdout.Fd()))
		printTable(os.Stdout, res, run.cfg.WantColor(isTTY))
	}

	if run.showTimings {
		for _, s := range metrics.AllTimingStats() {
			fmt.Fprintf(os.Stderr, "%-24s %6d calls  total %8.2fms  avg %8.2fms\n",
				s.Name, s.Count, s.TotalMs, s.AvgMs)
		}
	}
	return nil
}

// printTable renders a ranked summary of the records, highest degree first.
func printTable(w *os.File, res *analysis.Result, color bool) {
	records := make([]analysis.NodeStats, len(res.Nodes))
	copy(records, res.Nodes)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Degree != records[j].Degree {
			return records[i].Degree > records[j].Degree
		}
		return records[i].ID < records[j].ID
	})

	st := newTableStyles(color)
	fmt.Fprintln(w, st.header.Render(fmt.Sprintf(
		"%-16s %7s %10s %12s %12s %11s %8s %10s",
		"NODE", "DEGREE", "W.DEGREE", "EIGENVECTOR", "BETWEENNESS", "CLUSTERING", "CLIQUES", "COMMUNITY")))
	for _, rec := range records {
		line := fmt.Sprintf("%-16s %7d %10.3f %12.6f %12.6f %11.4f %8d %10d",
			truncateID(rec.ID, 16), rec.Degree, rec.WeightedDegree,
			rec.Eigenvector, rec.Betweenness, rec.Clustering,
			rec.Cliques, rec.Community)
		fmt.Fprintln(w, st.community(rec.Community).Render(line))
	}
}

func truncateID(id string, n int) string {
	if len(id) <= n {
		return id
	}
	return id[:n-1] + "…"
}
