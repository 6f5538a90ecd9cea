package pipeline

import "errors"

// Pipeline errors.
var (
	ErrInvalidRoundSet = errors.New("invalid round-set")
)
