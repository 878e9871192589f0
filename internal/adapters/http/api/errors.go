package api

import "errors"

// Sentinel kinds for HTTP-layer errors.
var (
	// ErrBadRequest marks a request with an unparseable path or body.
	ErrBadRequest = errors.New("bad request")

	// ErrBackpressure marks a batch refused because the ingest queue is full.
	ErrBackpressure = errors.New("ingest queue full")
)
