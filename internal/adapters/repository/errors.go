package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("player not found")
	ErrInvalidLimit = errors.New("invalid scoreboard limit")
	ErrNoSnapshot   = errors.New("no scored run yet")
)
