// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load() layers defaults, an optional YAML file and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

// Default configuration values.
const (
	defaultSeason      = 2025
	defaultDataDir     = "data"
	defaultInputsFile  = "inputs.yaml"
	defaultOutputJSON  = "classifications.json"
	defaultDatabase    = "stint.db"
	defaultPrecision   = 4
	defaultForestTrees = 30
	defaultForestDepth = 3
	defaultForestLeaf  = 1
	defaultForestSeed  = 42
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Season selects the season to process.
	Season int `koanf:"season"`

	// DataDir is the root of the materialized event tables.
	DataDir string `koanf:"data_dir"`

	// InputsFile points at the static peers/seeds/categories document.
	InputsFile string `koanf:"inputs_file"`

	// OutputJSON is where the season report is written.
	OutputJSON string `koanf:"output_json"`

	// DatabasePath is the sqlite file for persisted runs.
	DatabasePath string `koanf:"database_path"`

	// MetricsAddr serves Prometheus metrics during a run; empty disables it.
	MetricsAddr string `koanf:"metrics_addr"`

	// Precision is the decimal rounding applied to reported features.
	Precision int `koanf:"precision"`

	// Forest hyperparameters. The seed fixes every random draw.
	ForestTrees    int   `koanf:"forest_trees"`
	ForestMaxDepth int   `koanf:"forest_max_depth"`
	ForestMinLeaf  int   `koanf:"forest_min_leaf"`
	ForestSeed     int64 `koanf:"forest_seed"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Season:         defaultSeason,
		DataDir:        defaultDataDir,
		InputsFile:     defaultInputsFile,
		OutputJSON:     defaultOutputJSON,
		DatabasePath:   defaultDatabase,
		MetricsAddr:    "",
		Precision:      defaultPrecision,
		ForestTrees:    defaultForestTrees,
		ForestMaxDepth: defaultForestDepth,
		ForestMinLeaf:  defaultForestLeaf,
		ForestSeed:     defaultForestSeed,
	}
}
