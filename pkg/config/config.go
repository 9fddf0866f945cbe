// Package config handles loading and saving the netstats CLI configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/netstats/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AnalysisDefaults holds the analysis settings the CLI applies when the
// corresponding flags are not given.
type AnalysisDefaults struct {
	Features             []string `yaml:"features,omitempty"`
	LouvainTolerance     float64  `yaml:"louvain_tolerance,omitempty"`
	EigenvectorMaxIter   int      `yaml:"eigenvector_max_iter,omitempty"`
	EigenvectorTolerance float64  `yaml:"eigenvector_tolerance,omitempty"`
	CliquesMinSize       int      `yaml:"cliques_min_size,omitempty"`
}

// OutputConfig holds output preference settings.
type OutputConfig struct {
	ZeroFill *bool  `yaml:"zero_fill,omitempty"` // nil means default (true)
	Format   string `yaml:"format,omitempty"`    // table or json
	Color    string `yaml:"color,omitempty"`     // auto, always, never
}

// Config is the top-level configuration for netstats.
type Config struct {
	Analysis AnalysisDefaults `yaml:"analysis,omitempty"`
	Output   OutputConfig     `yaml:"output,omitempty"`
	Verbose  bool             `yaml:"verbose,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Output: OutputConfig{
			Format: "table",
			Color:  "auto",
		},
	}
}

// ConfigDir returns the XDG config directory for netstats.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "netstats")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "netstats")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "table"
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = "auto"
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// WantColor resolves the color preference against whether stdout is a
// terminal.
func (c Config) WantColor(isTerminal bool) bool {
	switch strings.ToLower(c.Output.Color) {
	case "always":
		return true
	case "never":
		return false
	default:
		return isTerminal
	}
}
