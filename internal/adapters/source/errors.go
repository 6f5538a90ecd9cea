package source

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidGame       = errors.New("invalid game row")
	ErrEmptyTable        = errors.New("table has no header")
	ErrInvalidIdentifier = errors.New("invalid sql identifier")
)
