// Package config handles loading and managing pipeline configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for a pipeline run. It replaces
// hard-wired file paths with explicit values handed to each stage, so the
// core stays testable with in-memory tables.
type Config struct {
	Sources       SourcesConfig `yaml:"sources"`
	Jurisdictions []string      `yaml:"jurisdictions"`
	Years         YearWindow    `yaml:"years"`
	Outputs       OutputsConfig `yaml:"outputs"`
	Storage       StorageConfig `yaml:"storage"`
	DatabaseURL   string        `yaml:"database_url"`
}

// SourcesConfig locates the canonical per-source tables.
type SourcesConfig struct {
	Emissions   string `yaml:"emissions"`
	Fuel        string `yaml:"fuel"`
	Population  string `yaml:"population"`
	Deprivation string `yaml:"deprivation"` // optional; empty skips the static join
}

// YearWindow restricts annual sources to a common span. Zero values leave
// the window unbounded.
type YearWindow struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// OutputsConfig locates the artifacts a run writes.
type OutputsConfig struct {
	BaseTable      string `yaml:"base_table"`
	ScoredTable    string `yaml:"scored_table"`
	DiagnosticsDir string `yaml:"diagnostics_dir"`
}

// StorageConfig selects the artifact storage backend.
type StorageConfig struct {
	Backend   string `yaml:"backend"` // "local", "s3", or "gcs"
	BaseDir   string `yaml:"base_dir"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// DefaultConfig returns a Config with sensible defaults, mirroring the
// canonical data layout.
func DefaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			Emissions:   "data/canonical/desnz_la_year.csv",
			Fuel:        "data/canonical/dft_la_year.csv",
			Population:  "data/canonical/ons_la_year.csv",
			Deprivation: "data/canonical/imd_la.csv",
		},
		Jurisdictions: []string{"E", "W"},
		Years:         YearWindow{Min: 2011, Max: 2023},
		Outputs: OutputsConfig{
			BaseTable:      "data/canonical/jtis_base_la_year.csv",
			ScoredTable:    "data/canonical/jtis_scored_la_year.csv",
			DiagnosticsDir: "outputs/diagnostics",
		},
		Storage: StorageConfig{Backend: "local", BaseDir: "outputs/artifacts"},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile looks for jti.yaml in the given directory and its
// parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, "jti.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
