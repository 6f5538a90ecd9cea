package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/pickem/internal/domain/types"
)

func run(id string, totals map[string]string) Run {
	rows := make([]types.ScoreboardRow, 0, len(totals))
	for player, total := range totals {
		rows = append(rows, types.ScoreboardRow{Player: player, Total: decimal.RequireFromString(total)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Player < rows[j].Player })
	return Run{ID: id, GeneratedAt: time.Unix(1_736_600_000, 0).UTC(), Tables: types.Tables{Scoreboard: rows}}
}

func TestTreapStore_Empty(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}
	if _, err := store.Snapshot(ctx); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
	if _, err := store.TopN(ctx, 10); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
	if _, err := store.Rank(ctx, "amy"); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	if err := store.Replace(ctx, run("r1", map[string]string{
		"amy": "12.5", "bob": "9", "cat": "9", "dan": "0",
	})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count := store.Count(ctx); count != 4 {
		t.Errorf("expected count 4, got %d", count)
	}

	snap, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.ID != "r1" {
		t.Errorf("expected run r1, got %s", snap.ID)
	}

	top, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		player string
		rank   int
	}{{"amy", 1}, {"bob", 2}, {"cat", 2}, {"dan", 4}}
	if len(top) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(top))
	}
	for i, w := range want {
		if top[i].Player != w.player || top[i].Rank != w.rank {
			t.Errorf("row %d: expected %s#%d, got %s#%d", i, w.player, w.rank, top[i].Player, top[i].Rank)
		}
	}

	row, err := store.Rank(ctx, "cat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Rank != 2 || !row.Total.Equal(decimal.NewFromInt(9)) {
		t.Errorf("unexpected row for cat: %+v", row)
	}

	if _, err := store.Rank(ctx, "zoe"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.TopN(ctx, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}

	top2, err := store.TopN(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top2) != 2 || top2[1].Player != "bob" {
		t.Errorf("unexpected top 2: %+v", top2)
	}
}

func TestTreapStore_ReplaceDropsOldPlayers(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	_ = store.Replace(ctx, run("r1", map[string]string{"amy": "3", "bob": "2"}))
	_ = store.Replace(ctx, run("r2", map[string]string{"bob": "5", "cat": "1"}))

	if _, err := store.Rank(ctx, "amy"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected amy to be gone, got %v", err)
	}
	row, err := store.Rank(ctx, "bob")
	if err != nil || row.Rank != 1 {
		t.Errorf("expected bob first, got %+v (%v)", row, err)
	}
	if snap, _ := store.Snapshot(ctx); snap.ID != "r2" {
		t.Errorf("expected run r2, got %s", snap.ID)
	}
}

func TestTreapStore_HalfPoints(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()

	_ = store.Replace(ctx, run("r1", map[string]string{"amy": "7.5", "bob": "7", "cat": "7.5"}))

	top, _ := store.TopN(ctx, 3)
	if top[0].Player != "amy" || top[1].Player != "cat" || top[1].Rank != 1 || top[2].Rank != 3 {
		t.Errorf("half points should order and tie exactly: %+v", top)
	}
}

func TestTreapStore_MatchesSortedOrder(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()
	rng := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test data

	totals := make(map[string]string, 500)
	for i := 0; i < 500; i++ {
		totals[fmt.Sprintf("player-%03d", i)] = fmt.Sprintf("%d.%d", rng.Intn(40), 5*rng.Intn(2))
	}
	_ = store.Replace(ctx, run("r1", totals))

	rows := run("", totals).Tables.Scoreboard
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Total.Cmp(rows[j].Total); c != 0 {
			return c > 0
		}
		return rows[i].Player < rows[j].Player
	})

	top, err := store.TopN(ctx, len(rows))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range rows {
		if top[i].Player != rows[i].Player {
			t.Fatalf("position %d: expected %s, got %s", i, rows[i].Player, top[i].Player)
		}
		rank, _ := store.Rank(ctx, rows[i].Player)
		if rank.Rank != top[i].Rank {
			t.Fatalf("rank mismatch for %s: %d vs %d", rows[i].Player, rank.Rank, top[i].Rank)
		}
		if i > 0 && !rows[i].Total.Equal(rows[i-1].Total) && top[i].Rank != i+1 {
			t.Fatalf("position %d: expected rank %d, got %d", i, i+1, top[i].Rank)
		}
	}
}

func TestTreapStore_ConcurrentReadsDuringReplace(t *testing.T) {
	ctx := context.Background()
	store := NewTreapStore()
	_ = store.Replace(ctx, run("r0", map[string]string{"amy": "1", "bob": "2"}))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				top, err := store.TopN(ctx, 10)
				if err != nil || len(top) != 2 {
					t.Errorf("readers must see a complete run, got %d rows (%v)", len(top), err)
					return
				}
			}
		}()
	}
	for i := 0; i < 50; i++ {
		_ = store.Replace(ctx, run(fmt.Sprintf("r%d", i+1), map[string]string{"amy": fmt.Sprint(i), "bob": "2"}))
	}
	wg.Wait()
}

func BenchmarkTreapStore_Replace(b *testing.B) {
	ctx := context.Background()
	totals := make(map[string]string, 1000)
	for i := 0; i < 1000; i++ {
		totals[fmt.Sprintf("player-%04d", i)] = fmt.Sprint(i % 97)
	}
	r := run("bench", totals)
	store := NewTreapStore()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Replace(ctx, r)
	}
}

func BenchmarkTreapStore_Rank(b *testing.B) {
	ctx := context.Background()
	totals := make(map[string]string, 1000)
	for i := 0; i < 1000; i++ {
		totals[fmt.Sprintf("player-%04d", i)] = fmt.Sprint(i % 97)
	}
	store := NewTreapStore()
	_ = store.Replace(ctx, run("bench", totals))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.Rank(ctx, "player-0500")
	}
}
