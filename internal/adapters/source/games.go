package source

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/okian/pickem/internal/domain/model"
	"github.com/okian/pickem/internal/domain/normalize"
)

// Game table columns.
const (
	ColGameID    = "game_id"
	ColDeadline  = "deadline"
	ColAway      = "away"
	ColHome      = "home"
	ColLine      = "line"
	ColAwayScore = "away_score"
	ColHomeScore = "home_score"
	ColResult    = "result"
	ColComplete  = "complete"
)

var gameColumns = []string{ //nolint:gochecknoglobals // read-only column list
	ColGameID, ColDeadline, ColAway, ColHome, ColLine,
	ColAwayScore, ColHomeScore, ColResult, ColComplete,
}

// gameRow is the raw text of one game row, checked before conversion.
type gameRow struct {
	GameID    string `validate:"required"`
	Deadline  string `validate:"required"`
	Away      string `validate:"required"`
	Home      string `validate:"required,nefield=Away"`
	Line      string `validate:"omitempty,numeric"`
	AwayScore string `validate:"omitempty,number"`
	HomeScore string `validate:"omitempty,number"`
	Result    string
	Complete  string `validate:"omitempty,oneof=0 1 true false TRUE FALSE True False yes no"`
}

var validate = validator.New() //nolint:gochecknoglobals // validator caches struct metadata

// ParseGames converts a game table into games. Any bad row is fatal since
// the round-set definition cannot be partially right.
func ParseGames(t normalize.Table, loc *time.Location) ([]model.Game, error) {
	if len(t.Header) == 0 {
		return nil, fmt.Errorf("games: %w", ErrEmptyTable)
	}
	if loc == nil {
		loc = time.UTC
	}

	index := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range []string{ColGameID, ColDeadline, ColAway, ColHome} {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidGame, c)
		}
	}

	games := make([]model.Game, 0, len(t.Rows))
	for i, row := range t.Rows {
		if blank(row) {
			continue
		}
		raw := gameRow{
			GameID:    field(row, index, ColGameID),
			Deadline:  field(row, index, ColDeadline),
			Away:      field(row, index, ColAway),
			Home:      field(row, index, ColHome),
			Line:      field(row, index, ColLine),
			AwayScore: field(row, index, ColAwayScore),
			HomeScore: field(row, index, ColHomeScore),
			Result:    field(row, index, ColResult),
			Complete:  field(row, index, ColComplete),
		}
		g, err := raw.game(loc)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrInvalidGame, i+1, err)
		}
		games = append(games, g)
	}
	return games, nil
}

func (r gameRow) game(loc *time.Location) (model.Game, error) {
	if err := validate.Struct(r); err != nil {
		return model.Game{}, err
	}

	deadline, err := parseTime(r.Deadline, loc)
	if err != nil {
		return model.Game{}, err
	}

	g := model.Game{
		GameID:   r.GameID,
		Deadline: deadline,
		Away:     r.Away,
		Home:     r.Home,
		Result:   r.Result,
	}
	if r.Line != "" {
		if g.Line, err = strconv.ParseFloat(r.Line, 64); err != nil {
			return model.Game{}, fmt.Errorf("line: %w", err)
		}
	}
	if g.AwayScore, err = score(r.AwayScore); err != nil {
		return model.Game{}, fmt.Errorf("away_score: %w", err)
	}
	if g.HomeScore, err = score(r.HomeScore); err != nil {
		return model.Game{}, fmt.Errorf("home_score: %w", err)
	}
	switch strings.ToLower(r.Complete) {
	case "1", "true", "yes":
		g.Complete = true
	}
	if g.Complete && g.ATSResult("") == "" {
		return model.Game{}, fmt.Errorf("game %q is complete but has neither a result nor both scores", g.GameID)
	}
	return g, nil
}

func score(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseTime(raw string, loc *time.Location) (time.Time, error) {
	for _, layout := range normalize.DefaultTimeLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("deadline %q: unrecognized time format", raw)
}

func field(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
