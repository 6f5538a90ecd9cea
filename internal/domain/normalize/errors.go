package normalize

import "github.com/cockroachdb/errors"

// Structural errors abort the run; they mean the upstream table does not
// match the round-set, not that a participant made a mistake.
var (
	ErrMissingColumn  = errors.New("missing required column")
	ErrColumnMismatch = errors.New("pick and confidence columns do not pair")
	ErrNoGames        = errors.New("no games to normalize against")
)
