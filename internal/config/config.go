// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; file and env layers override them in Load.
// - External errors are wrapped via this package's sentinel kinds.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// IngestQueueSize bounds the in-memory ingest batch queue.
	IngestQueueSize int `koanf:"ingest_queue_size"`

	// IngestWorkerCount sets the number of normalization workers.
	IngestWorkerCount int `koanf:"ingest_worker_count"`

	// FieldSize bounds valid race positions when a batch does not carry its
	// own field size. 0 disables the upper-bound check.
	FieldSize int `koanf:"field_size"`

	// FetchDedup shares in-flight telemetry fetches for the same race.
	FetchDedup bool `koanf:"fetch_dedup"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8090",
		IngestQueueSize:   1024,
		IngestWorkerCount: runtime.NumCPU(),
		FieldSize:         20,
		FetchDedup:        true,
	}
}
