package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("too many pending refreshes")
	ErrNoRun        = errors.New("no scored run available yet")
)
