// Package types contains the output tables shared by the store, API and tools.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// GameResult is one row of the game results table.
type GameResult struct {
	GameID    string    `json:"game_id"`
	Away      string    `json:"away"`
	Home      string    `json:"home"`
	Line      float64   `json:"line"`
	AwayScore *int      `json:"away_score,omitempty"`
	HomeScore *int      `json:"home_score,omitempty"`
	Result    string    `json:"result,omitempty"`
	Complete  bool      `json:"complete"`
	Deadline  time.Time `json:"deadline"`
}

// ScoreboardRow is one player's line on the scoreboard.
type ScoreboardRow struct {
	Rank             int             `json:"rank"`
	Player           string          `json:"player"`
	Total            decimal.Decimal `json:"total"`
	WeightsUsed      []int           `json:"weights_used"`
	WeightsRemaining string          `json:"weights_remaining"`
	MaxPossible      decimal.Decimal `json:"max_possible"`
	Efficiency       decimal.Decimal `json:"efficiency"`
	Correct          int             `json:"correct"`
	Graded           int             `json:"graded"`
}

// Cell is one (player, game) entry of the picks grid. An empty Text means
// the player has no valid entry for the game.
type Cell struct {
	GameID string `json:"game_id"`
	Text   string `json:"text"`
	Status string `json:"status,omitempty"`
}

// PicksRow is one player's row of the picks grid, one cell per game.
type PicksRow struct {
	Player string `json:"player"`
	Cells  []Cell `json:"cells"`
}

// PicksGrid holds the game column order and one row per player.
type PicksGrid struct {
	Games []string   `json:"games"`
	Rows  []PicksRow `json:"rows"`
}

// RunStats summarizes what one pipeline run kept and dropped.
type RunStats struct {
	Rows        int `json:"rows"`
	DroppedRows int `json:"dropped_rows"`
	Submissions int `json:"submissions"`
	Late        int `json:"late"`
	Malformed   int `json:"malformed"`
	OutOfRange  int `json:"out_of_range"`
	UnknownGame int `json:"unknown_game"`
	Selected    int `json:"selected"`
	Duplicates  int `json:"duplicates"`
	Players     int `json:"players"`
	Complete    int `json:"games_complete"`
}

// Tables is the full rendered output of one run.
type Tables struct {
	Games      []GameResult    `json:"games"`
	Scoreboard []ScoreboardRow `json:"scoreboard"`
	Picks      PicksGrid       `json:"picks"`
	Stats      RunStats        `json:"stats"`
}
