// Package validity selects one effective pick per (player, game).
package validity

import (
	"errors"
	"sort"

	"github.com/okian/pickem/internal/domain/model"
)

// Stats counts what the filter excluded and selected.
type Stats struct {
	Late        int `json:"late"`         // submissions after the game deadline
	Malformed   int `json:"malformed"`    // selected submissions with an unparseable weight
	OutOfRange  int `json:"out_of_range"` // selected submissions with a weight outside [1, K]
	UnknownGame int `json:"unknown_game"` // submissions for games outside the round-set
	Selected    int `json:"selected"`
}

type key struct {
	player string
	gameID string
}

// Filter applies the deadline, latest-wins and weight parsing rules. The
// output is ordered by player, then by the order of games.
func Filter(subs []model.Submission, games []model.Game) ([]model.EffectivePick, Stats) {
	k := len(games)
	order := make(map[string]int, k)
	for i, g := range games {
		order[g.GameID] = i
	}

	var stats Stats
	groups := make(map[key][]model.Submission)
	for _, s := range subs {
		i, ok := order[s.GameID]
		if !ok {
			stats.UnknownGame++
			continue
		}
		if Late(s, games[i]) {
			stats.Late++
			continue
		}
		kk := key{player: s.Player, gameID: s.GameID}
		groups[kk] = append(groups[kk], s)
	}

	keys := make([]key, 0, len(groups))
	for kk := range groups {
		keys = append(keys, kk)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].player != keys[j].player {
			return keys[i].player < keys[j].player
		}
		return order[keys[i].gameID] < order[keys[j].gameID]
	})

	picks := make([]model.EffectivePick, 0, len(keys))
	for _, kk := range keys {
		sel := Select(groups[kk])
		w := model.ParseWeight(sel.Confidence, k)
		if !w.OK() {
			if errors.Is(w.Err, model.ErrWeightOutOfRange) {
				stats.OutOfRange++
			} else {
				stats.Malformed++
			}
			continue
		}
		picks = append(picks, model.EffectivePick{
			Player:              sel.Player,
			GameID:              sel.GameID,
			Pick:                sel.Pick,
			Timestamp:           sel.Timestamp,
			Row:                 sel.Row,
			RawConfidence:       w.Value,
			EffectiveConfidence: w.Value,
		})
	}
	stats.Selected = len(picks)
	return picks, stats
}

// Late reports whether s arrived after g's deadline. A zero deadline never closes.
func Late(s model.Submission, g model.Game) bool {
	return !g.Deadline.IsZero() && s.Timestamp.After(g.Deadline)
}

// Select returns the latest submission with a non-blank pick, or the
// earliest one when every pick is blank. subs must not be empty.
func Select(subs []model.Submission) model.Submission {
	ordered := append([]model.Submission(nil), subs...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Timestamp.Equal(ordered[j].Timestamp) {
			return ordered[i].Timestamp.Before(ordered[j].Timestamp)
		}
		return ordered[i].Row < ordered[j].Row
	})
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].Pick != "" {
			return ordered[i]
		}
	}
	return ordered[0]
}
