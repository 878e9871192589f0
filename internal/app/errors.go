package app

import (
	"errors"
	"fmt"
)

// Sentinel kinds for facade errors. A missing parameter is a malformed
// request and surfaces as an error; a valid request with no data never does.
var (
	ErrMissingParameter = errors.New("missing parameter")
	ErrUnknownKind      = errors.New("unknown view kind")
	ErrNotStarted       = errors.New("service not started")
)

// missingParam wraps ErrMissingParameter with the parameter name so callers
// can both errors.Is the kind and report which key was absent.
func missingParam(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingParameter, name)
}
