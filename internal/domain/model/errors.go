package model

import "errors"

// Sentinel kinds for participant-level data problems.
var (
	ErrMalformedWeight  = errors.New("malformed confidence weight")
	ErrWeightOutOfRange = errors.New("confidence weight out of range")
)
