// Package dedupe enforces unique confidence weights per player.
package dedupe

import (
	"sort"

	"github.com/okian/pickem/internal/domain/model"
)

// Outcome is one player's picks after duplicate resolution.
type Outcome struct {
	Player string
	// Picks are in claim order: (Timestamp, Row, GameID) ascending.
	Picks  []model.EffectivePick
	Ledger Ledger
	// Duplicates counts picks whose weight was zeroed.
	Duplicates int
}

// Step claims p's declared weight against l. The first claimant commits the
// weight; a later one is zeroed and leaves the ledger unchanged.
func Step(l Ledger, p model.EffectivePick) (Ledger, model.EffectivePick) {
	seen, next := l.SeenAndRecord(p.RawConfidence)
	if seen {
		p.EffectiveConfidence = 0
		p.DupOf = p.RawConfidence
		return l, p
	}
	p.EffectiveConfidence = p.RawConfidence
	p.DupOf = 0
	return next, p
}

// Resolve folds a single player's picks in claim order. The input is not modified.
func Resolve(picks []model.EffectivePick) Outcome {
	ordered := append([]model.EffectivePick(nil), picks...)
	SortClaimOrder(ordered)

	var out Outcome
	if len(ordered) > 0 {
		out.Player = ordered[0].Player
	}
	ledger := Ledger{}
	for i, p := range ordered {
		ledger, ordered[i] = Step(ledger, p)
		if ordered[i].IsDuplicate() {
			out.Duplicates++
		}
	}
	out.Picks = ordered
	out.Ledger = ledger
	return out
}

// SortClaimOrder sorts picks by (Timestamp, Row, GameID).
func SortClaimOrder(picks []model.EffectivePick) {
	sort.SliceStable(picks, func(i, j int) bool {
		a, b := picks[i], picks[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.GameID < b.GameID
	})
}

// GroupByPlayer splits picks per player, players in ascending order.
func GroupByPlayer(picks []model.EffectivePick) [][]model.EffectivePick {
	index := make(map[string]int)
	var groups [][]model.EffectivePick
	var players []string
	for _, p := range picks {
		i, ok := index[p.Player]
		if !ok {
			i = len(groups)
			index[p.Player] = i
			groups = append(groups, nil)
			players = append(players, p.Player)
		}
		groups[i] = append(groups[i], p)
	}
	sort.Sort(byPlayer{players: players, groups: groups})
	return groups
}

type byPlayer struct {
	players []string
	groups  [][]model.EffectivePick
}

func (b byPlayer) Len() int           { return len(b.players) }
func (b byPlayer) Less(i, j int) bool { return b.players[i] < b.players[j] }
func (b byPlayer) Swap(i, j int) {
	b.players[i], b.players[j] = b.players[j], b.players[i]
	b.groups[i], b.groups[j] = b.groups[j], b.groups[i]
}

// ResolveAll resolves every player sequentially, players in ascending order.
func ResolveAll(picks []model.EffectivePick) []Outcome {
	groups := GroupByPlayer(picks)
	out := make([]Outcome, len(groups))
	for i, g := range groups {
		out[i] = Resolve(g)
	}
	return out
}
