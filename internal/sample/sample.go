// Package sample generates synthetic contests for demos and load checks.
package sample

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/okian/pickem/internal/adapters/source"
	"github.com/okian/pickem/internal/domain/normalize"
)

// TimeLayout is the timestamp and deadline format written to the tables.
const TimeLayout = "2006-01-02 15:04:05"

const (
	gameSpacing     = 3 * time.Hour
	maxEarlyMinutes = 600
	minScore        = 3
	scoreRange      = 38
	maxHalfPoints   = 20
)

var teams = []string{ //nolint:gochecknoglobals // read-only team list
	"Bills", "Dolphins", "Patriots", "Jets", "Ravens", "Bengals", "Browns", "Steelers",
	"Texans", "Colts", "Jaguars", "Titans", "Broncos", "Chiefs", "Raiders", "Chargers",
	"Cowboys", "Giants", "Eagles", "Commanders", "Bears", "Lions", "Packers", "Vikings",
	"Falcons", "Panthers", "Saints", "Buccaneers", "Cardinals", "Rams", "49ers", "Seahawks",
}

var validate = validator.New() //nolint:gochecknoglobals // validator caches struct metadata

// Config controls the generated contest.
type Config struct {
	Players int `validate:"min=1"`
	Games   int `validate:"min=1,max=16"`
	Seed    uint64
	Kickoff time.Time `validate:"required"`

	// CompleteRatio is the share of games with a final score.
	CompleteRatio float64 `validate:"min=0,max=1"`
	// ResubmitRatio is the share of players who send a second, partial row.
	ResubmitRatio float64 `validate:"min=0,max=1"`
	// DuplicateRatio is the share of players who reuse one weight.
	DuplicateRatio float64 `validate:"min=0,max=1"`
}

// DefaultConfig returns a mid-sized contest kicking off on the next Sunday 18:00 UTC.
func DefaultConfig() Config {
	now := time.Now().UTC()
	days := (7 - int(now.Weekday())) % 7
	kickoff := time.Date(now.Year(), now.Month(), now.Day()+days, 18, 0, 0, 0, time.UTC)
	return Config{
		Players:        24,
		Games:          6,
		Seed:           1,
		Kickoff:        kickoff,
		CompleteRatio:  0.5,
		ResubmitRatio:  0.25,
		DuplicateRatio: 0.1,
	}
}

// Contest is a generated submissions table and games table.
type Contest struct {
	ID          string
	Submissions normalize.Table
	Games       normalize.Table
}

// Generate builds a contest. The same Config always yields the same contest.
func Generate(cfg Config) (Contest, error) {
	if err := validate.Struct(cfg); err != nil {
		return Contest{}, fmt.Errorf("sample config: %w", err)
	}

	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], cfg.Seed)
	src := rand.NewChaCha8(seed)
	rng := rand.New(src)

	id, err := uuid.NewRandomFromReader(src)
	if err != nil {
		return Contest{}, fmt.Errorf("contest id: %w", err)
	}

	g := generator{cfg: cfg, rng: rng}
	games := g.games()
	return Contest{
		ID:          id.String(),
		Games:       games,
		Submissions: g.submissions(games),
	}, nil
}

type generator struct {
	cfg Config
	rng *rand.Rand
}

func (g generator) gameID(i int) string { return "g" + strconv.Itoa(i+1) }

func (g generator) deadline(i int) time.Time {
	return g.cfg.Kickoff.Add(time.Duration(i) * gameSpacing)
}

func (g generator) games() normalize.Table {
	order := g.rng.Perm(len(teams))
	complete := int(float64(g.cfg.Games) * g.cfg.CompleteRatio)

	t := normalize.Table{Header: []string{
		source.ColGameID, source.ColDeadline, source.ColAway, source.ColHome, source.ColLine,
		source.ColAwayScore, source.ColHomeScore, source.ColResult, source.ColComplete,
	}}
	for i := 0; i < g.cfg.Games; i++ {
		// half-point steps; whole numbers allow pushes
		line := float64(g.rng.IntN(2*maxHalfPoints+1)-maxHalfPoints) / 2
		row := []string{
			g.gameID(i),
			g.deadline(i).Format(TimeLayout),
			teams[order[2*i]],
			teams[order[2*i+1]],
			strconv.FormatFloat(line, 'f', -1, 64),
			"", "", "", "0",
		}
		if i < complete {
			row[5] = strconv.Itoa(minScore + g.rng.IntN(scoreRange))
			row[6] = strconv.Itoa(minScore + g.rng.IntN(scoreRange))
			row[8] = "1"
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func (g generator) submissions(games normalize.Table) normalize.Table {
	k := g.cfg.Games
	header := []string{normalize.DefaultTimestampColumn, normalize.DefaultPlayerColumn}
	for i := 0; i < k; i++ {
		header = append(header, g.gameID(i), g.gameID(i)+normalize.DefaultConfidenceSuffix)
	}
	t := normalize.Table{Header: header}

	for p := 0; p < g.cfg.Players; p++ {
		player := fmt.Sprintf("player%02d", p+1)
		submitted := g.cfg.Kickoff.Add(-time.Duration(1+g.rng.IntN(maxEarlyMinutes)) * time.Minute)

		weights := g.rng.Perm(k)
		if k > 1 && g.rng.Float64() < g.cfg.DuplicateRatio {
			weights[g.rng.IntN(k)] = weights[g.rng.IntN(k)]
		}
		row := []string{submitted.Format(TimeLayout), player}
		for i := 0; i < k; i++ {
			row = append(row, g.side(games.Rows[i]), strconv.Itoa(weights[i]+1))
		}
		t.Rows = append(t.Rows, row)

		if g.rng.Float64() < g.cfg.ResubmitRatio {
			t.Rows = append(t.Rows, g.resubmit(games, player))
		}
	}
	return t
}

// resubmit changes the pick on one game, sent between two deadlines so it
// is late for the earlier games.
func (g generator) resubmit(games normalize.Table, player string) []string {
	k := g.cfg.Games
	at := g.cfg.Kickoff.Add(time.Duration(g.rng.IntN(k)) * gameSpacing).Add(time.Hour)
	row := make([]string, 2+2*k)
	row[0] = at.Format(TimeLayout)
	row[1] = player
	i := g.rng.IntN(k)
	row[2+2*i] = g.side(games.Rows[i])
	row[3+2*i] = strconv.Itoa(1 + g.rng.IntN(k))
	return row
}

func (g generator) side(game []string) string {
	if g.rng.IntN(2) == 0 {
		return game[2]
	}
	return game[3]
}
