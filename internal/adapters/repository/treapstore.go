package repository

import (
	"context"
	"hash/fnv"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/pickem/internal/domain/types"
	"github.com/okian/pickem/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: total DESC, then player ASC (deterministic).
// "less" means ranks earlier, so in-order traversal yields the scoreboard
// from best to worst. The whole index is rebuilt on Replace and published
// through an atomic pointer; readers never take a lock.

// scoreScale fixes points to integers; totals are multiples of 0.5.
const scoreScale = 6

type scoreFP int64

func toFixedPoint(d decimal.Decimal) scoreFP {
	return scoreFP(d.Shift(scoreScale).Round(0).IntPart())
}

// treap node
type node struct {
	id    string
	score scoreFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) should appear before (bScore, bID).
func less(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// priority hashes the player id so tree shape is balanced and reproducible.
func priority(id string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return h.Sum64()
}

func insert(n *node, id string, score scoreFP) *node {
	if n == nil {
		return &node{id: id, score: score, prio: priority(id), size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

// countAbove returns how many players have a strictly higher score.
func countAbove(n *node, score scoreFP) int {
	count := 0
	for n != nil {
		if n.score > score {
			count += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// collectTopN appends up to limit ids in rank order.
func collectTopN(n *node, limit int, out *[]string) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.id)
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// state is an immutable published run plus its index.
type state struct {
	run    Run
	root   *node
	rows   map[string]types.ScoreboardRow
	scores map[string]scoreFP
}

// TreapStore keeps the latest run behind an atomic pointer.
type TreapStore struct {
	current atomic.Pointer[state]
}

// NewTreapStore constructs an empty treap store.
func NewTreapStore() *TreapStore {
	return &TreapStore{}
}

// Replace builds a fresh index for run and publishes it.
func (s *TreapStore) Replace(ctx context.Context, run Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	st := &state{
		run:    run,
		rows:   make(map[string]types.ScoreboardRow, len(run.Tables.Scoreboard)),
		scores: make(map[string]scoreFP, len(run.Tables.Scoreboard)),
	}
	for _, r := range run.Tables.Scoreboard {
		fp := toFixedPoint(r.Total)
		st.rows[r.Player] = r
		st.scores[r.Player] = fp
		st.root = insert(st.root, r.Player, fp)
	}
	s.current.Store(st)
	return nil
}

// Snapshot returns the current run.
func (s *TreapStore) Snapshot(ctx context.Context) (Run, error) {
	st := s.current.Load()
	if st == nil {
		return Run{}, ErrNoSnapshot
	}
	return st.run, nil
}

// Rank returns a player's row with its competition rank in O(log n).
func (s *TreapStore) Rank(ctx context.Context, player string) (types.ScoreboardRow, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	st := s.current.Load()
	if st == nil {
		return types.ScoreboardRow{}, ErrNoSnapshot
	}
	row, ok := st.rows[player]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.ScoreboardRow{}, ErrNotFound
	}
	row.Rank = countAbove(st.root, st.scores[player]) + 1
	return row, nil
}

// TopN returns the top N scoreboard rows.
func (s *TreapStore) TopN(ctx context.Context, n int) ([]types.ScoreboardRow, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	st := s.current.Load()
	if st == nil {
		return nil, ErrNoSnapshot
	}

	ids := make([]string, 0, min(n, len(st.rows)))
	collectTopN(st.root, n, &ids)
	out := make([]types.ScoreboardRow, len(ids))
	for i, id := range ids {
		out[i] = st.rows[id]
		out[i].Rank = countAbove(st.root, st.scores[id]) + 1
	}
	return out, nil
}

// Count returns the number of players in the current run.
func (s *TreapStore) Count(ctx context.Context) int {
	st := s.current.Load()
	if st == nil {
		return 0
	}
	return len(st.rows)
}
