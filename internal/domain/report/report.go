// Package report renders a pipeline result into the three output tables.
package report

import (
	"fmt"
	"sort"

	"github.com/okian/pickem/internal/domain/pipeline"
	"github.com/okian/pickem/internal/domain/remaining"
	"github.com/okian/pickem/internal/domain/types"
)

// BlankPick is shown in the picks grid when a player kept a weight but chose no team.
const BlankPick = "-"

// Build renders res. It is deterministic for a given result.
func Build(res pipeline.Result) types.Tables {
	return types.Tables{
		Games:      GameResults(res),
		Scoreboard: Scoreboard(res),
		Picks:      PicksGrid(res),
		Stats:      res.Stats,
	}
}

// GameResults returns one row per game, in round-set order.
func GameResults(res pipeline.Result) []types.GameResult {
	out := make([]types.GameResult, len(res.Games))
	for i, g := range res.Games {
		out[i] = types.GameResult{
			GameID:    g.GameID,
			Away:      g.Away,
			Home:      g.Home,
			Line:      g.Line,
			AwayScore: g.AwayScore,
			HomeScore: g.HomeScore,
			Result:    g.ATSResult(res.PushToken),
			Complete:  g.Complete,
			Deadline:  g.Deadline,
		}
	}
	return out
}

// Scoreboard returns one row per player ordered by total descending, then
// player. Equal totals share a rank and the next rank skips ahead.
func Scoreboard(res pipeline.Result) []types.ScoreboardRow {
	rows := make([]types.ScoreboardRow, len(res.Players))
	for i, p := range res.Players {
		rows[i] = types.ScoreboardRow{
			Player:           p.Player,
			Total:            p.Summary.Total,
			WeightsUsed:      p.Ledger.Committed(),
			WeightsRemaining: remaining.Format(p.Remaining),
			MaxPossible:      p.Summary.MaxPossible,
			Efficiency:       p.Summary.Efficiency,
			Correct:          p.Summary.Correct,
			Graded:           p.Summary.Graded,
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Player < rows[j].Player
	})
	for i := range rows {
		if i > 0 && rows[i].Total.Equal(rows[i-1].Total) {
			rows[i].Rank = rows[i-1].Rank
			continue
		}
		rows[i].Rank = i + 1
	}
	return rows
}

// PicksGrid returns one row per player with a cell per game.
func PicksGrid(res pipeline.Result) types.PicksGrid {
	grid := types.PicksGrid{Games: make([]string, len(res.Games))}
	for i, g := range res.Games {
		grid.Games[i] = g.GameID
	}
	grid.Rows = make([]types.PicksRow, len(res.Players))
	for i, p := range res.Players {
		row := types.PicksRow{Player: p.Player, Cells: make([]types.Cell, len(res.Games))}
		for j, g := range res.Games {
			row.Cells[j].GameID = g.GameID
			sp, ok := p.Pick(g.GameID)
			if !ok {
				continue
			}
			pick := sp.Pick
			if pick == "" {
				pick = BlankPick
			}
			row.Cells[j].Text = fmt.Sprintf("%s (%d)", pick, sp.EffectiveConfidence)
			row.Cells[j].Status = string(sp.Status)
		}
		grid.Rows[i] = row
	}
	return grid
}
