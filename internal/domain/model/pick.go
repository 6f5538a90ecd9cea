// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Submission is one flat raw entry for a (player, game) pair.
type Submission struct {
	Player     string    // case-sensitive player identity
	Timestamp  time.Time // submission instant
	GameID     string    // game the pick belongs to
	Pick       string    // team token; "" means no selection
	Confidence string    // declared weight as received
	Row        int       // source row index, the deterministic tie-break
}

// EffectivePick is the single submission selected for a (player, game).
type EffectivePick struct {
	Player              string
	GameID              string
	Pick                string
	Timestamp           time.Time
	Row                 int
	RawConfidence       int
	EffectiveConfidence int
	// DupOf is the weight this pick collided with, 0 when it was not a duplicate.
	DupOf int
}

// IsDuplicate reports whether the pick lost a weight-uniqueness collision.
func (p EffectivePick) IsDuplicate() bool { return p.DupOf != 0 }

// HasSelection reports whether the player actually chose a team.
func (p EffectivePick) HasSelection() bool { return p.Pick != "" }

// Status is the presentation state of a scored pick.
type Status string

// Pick statuses.
const (
	StatusCorrect   Status = "correct"
	StatusIncorrect Status = "incorrect"
	StatusPush      Status = "push"
	StatusPending   Status = "pending"
)

// ScoredPick is an EffectivePick with its points once the game is complete.
type ScoredPick struct {
	EffectivePick
	// Points is invalid (absent) while the game is incomplete.
	Points decimal.NullDecimal
	Status Status
}

// Scored reports whether points have been assigned.
func (p ScoredPick) Scored() bool { return p.Points.Valid }
