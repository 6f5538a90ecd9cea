// Package pipeline runs normalize, validity, dedupe, scoring and remaining
// weights as one pure pass over a submissions table and a game table.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/okian/pickem/internal/domain/dedupe"
	"github.com/okian/pickem/internal/domain/model"
	"github.com/okian/pickem/internal/domain/normalize"
	"github.com/okian/pickem/internal/domain/remaining"
	"github.com/okian/pickem/internal/domain/scoring"
	"github.com/okian/pickem/internal/domain/types"
	"github.com/okian/pickem/internal/domain/validity"
)

// Input is everything a run needs, already loaded from a source.
type Input struct {
	Submissions normalize.Table
	Games       []model.Game
}

// PlayerResult is one player's scored round-set.
type PlayerResult struct {
	Player string
	// Picks are in game order and only for games with an effective pick.
	Picks     []model.ScoredPick
	Ledger    dedupe.Ledger
	Remaining []int
	Summary   scoring.Summary
}

// Pick returns the player's scored pick for gameID.
func (r PlayerResult) Pick(gameID string) (model.ScoredPick, bool) {
	for _, p := range r.Picks {
		if p.GameID == gameID {
			return p, true
		}
	}
	return model.ScoredPick{}, false
}

// Result is the full output of a run.
type Result struct {
	Games   []model.Game
	Players []PlayerResult // ascending by player
	Stats   types.RunStats
	// PushToken is the result token the scorer used for a push.
	PushToken string
}

// K returns the size of the round-set.
func (r Result) K() int { return len(r.Games) }

// Run scores a round-set. The result depends only on in and opts; the
// worker count never changes the output.
func Run(ctx context.Context, in Input, opts ...Option) (Result, error) {
	s := settings{normalizer: normalize.New(), scorer: scoring.NewScorer()}
	for _, opt := range opts {
		opt(&s)
	}

	ids, err := checkRoundSet(in.Games)
	if err != nil {
		return Result{}, err
	}
	games := append([]model.Game(nil), in.Games...)
	for i := range games {
		games[i].GameID = ids[i]
	}

	norm, err := s.normalizer.Normalize(in.Submissions, ids)
	if err != nil {
		return Result{}, fmt.Errorf("normalize submissions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	picks, vstats := validity.Filter(norm.Submissions, games)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	groups := dedupe.GroupByPlayer(picks)
	players := make([]PlayerResult, len(groups))
	score := func(i int) {
		players[i] = scorePlayer(groups[i], games, s.scorer)
	}
	if err := fanOut(ctx, len(groups), s.workers, score); err != nil {
		return Result{}, err
	}

	res := Result{Games: games, Players: players, PushToken: s.scorer.PushToken()}
	res.Stats = types.RunStats{
		Rows:        len(in.Submissions.Rows),
		DroppedRows: norm.DroppedRows,
		Submissions: len(norm.Submissions),
		Late:        vstats.Late,
		Malformed:   vstats.Malformed,
		OutOfRange:  vstats.OutOfRange,
		UnknownGame: vstats.UnknownGame,
		Selected:    vstats.Selected,
		Players:     len(players),
	}
	for _, p := range players {
		for _, sp := range p.Picks {
			if sp.IsDuplicate() {
				res.Stats.Duplicates++
			}
		}
	}
	for _, g := range games {
		if g.Complete {
			res.Stats.Complete++
		}
	}
	return res, nil
}

func checkRoundSet(games []model.Game) ([]string, error) {
	if len(games) == 0 {
		return nil, fmt.Errorf("%w: no games", ErrInvalidRoundSet)
	}
	ids := make([]string, len(games))
	seen := make(map[string]struct{}, len(games))
	for i, g := range games {
		id := strings.TrimSpace(g.GameID)
		if id == "" {
			return nil, fmt.Errorf("%w: game %d has no id", ErrInvalidRoundSet, i)
		}
		key := strings.ToLower(id)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate game id %q", ErrInvalidRoundSet, id)
		}
		seen[key] = struct{}{}
		ids[i] = id
	}
	return ids, nil
}

func scorePlayer(picks []model.EffectivePick, games []model.Game, sc *scoring.Scorer) PlayerResult {
	out := dedupe.Resolve(picks)
	resolved := make(map[string]model.EffectivePick, len(out.Picks))
	for _, p := range out.Picks {
		resolved[p.GameID] = p
	}

	pr := PlayerResult{Player: out.Player, Ledger: out.Ledger}
	for _, g := range games {
		p, ok := resolved[g.GameID]
		if !ok {
			continue
		}
		pr.Picks = append(pr.Picks, sc.Score(p, g))
	}
	pr.Remaining = remaining.Calculate(len(games), out.Ledger)
	pr.Summary = scoring.Summarize(pr.Picks)
	return pr
}

// fanOut calls fn for every index in [0, n). With more than one worker the
// calls run on an ants pool; each call owns its index so no locking is needed.
func fanOut(ctx context.Context, n, workers int, fn func(int)) error {
	if workers <= 1 || n <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
		}
		return nil
	}

	pool, err := ants.NewPool(min(workers, n))
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			fn(i)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit player to worker pool: %w", err)
		}
	}
	wg.Wait()
	return ctx.Err()
}
