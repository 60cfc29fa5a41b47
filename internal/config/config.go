// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address for metrics and health,
	// e.g. ":9080".
	Addr string `koanf:"addr"`

	// StorePath points at the SQLite ledger file. Empty selects the
	// in-memory ledger, which does not survive restarts.
	StorePath string `koanf:"store_path"`

	// MatchLimit caps GenerateMatches results when the caller passes no
	// limit.
	MatchLimit int `koanf:"match_limit"`

	// HookWorkers sets the post-commit hook worker pool size.
	HookWorkers int `koanf:"hook_workers"`

	// HookQueueSize bounds the in-memory hook queue.
	HookQueueSize int `koanf:"hook_queue_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		StorePath:     "",
		MatchLimit:    10,
		HookWorkers:   4,
		HookQueueSize: 1024,
	}
}
