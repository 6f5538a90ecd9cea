// Package repository holds the latest scored run and its ranking index.
package repository

import (
	"context"
	"time"

	"github.com/okian/pickem/internal/domain/types"
)

// Run is one complete scoring run as served to readers.
type Run struct {
	ID          string
	GeneratedAt time.Time
	Tables      types.Tables
}

// Store provides read/write access to the latest run.
type Store interface {
	// Replace swaps in run as the current state. Readers see either the old
	// run or the new one, never a mix.
	Replace(ctx context.Context, run Run) error

	// Snapshot returns the current run, or ErrNoSnapshot before the first Replace.
	Snapshot(ctx context.Context) (Run, error)

	// Rank returns a player's scoreboard row. Returns ErrNotFound if the player is unknown.
	Rank(ctx context.Context, player string) (types.ScoreboardRow, error)

	// TopN returns the top-N scoreboard rows ordered by total desc, player asc.
	TopN(ctx context.Context, n int) ([]types.ScoreboardRow, error)

	// Count returns the number of players on the current scoreboard.
	Count(ctx context.Context) int
}
