package config

import "errors"

// Sentinel kinds for config errors; Load wraps the underlying cause so
// callers can errors.Is against these.
var (
	// ErrInvalidConfig marks a loaded configuration that fails validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig marks a failure reading or decoding a config layer.
	ErrLoadConfig = errors.New("load config failed")
)
