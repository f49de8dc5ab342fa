// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config holding defaults.
// - Load(ctx) layers an optional YAML file and ROSTER_* env vars on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import "errors"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataFile is the JSON roster file read at start and rewritten on insert.
	DataFile string `koanf:"data_file"`

	// DefaultNeighbors is k for similarity queries that do not name one.
	DefaultNeighbors int `koanf:"default_neighbors"`

	// MaxNeighbors caps k for similarity queries.
	MaxNeighbors int `koanf:"max_neighbors"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		DataFile:         "servers.json",
		DefaultNeighbors: 3,
		MaxNeighbors:     100,
	}
}

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrInvalidConfig marks values that fail validation.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a provider (file, env, .env) that could not be read.
	ErrLoadConfig = errors.New("load config failed")
)
