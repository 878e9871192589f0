package repository

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrNotFound marks a read for a (season, round) the store never ingested.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidSeason marks a write keyed by a non-positive season.
	ErrInvalidSeason = errors.New("invalid season")
)
