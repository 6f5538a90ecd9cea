// Package normalize reshapes wide submission rows into flat per-(player, game) records.
package normalize

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/okian/pickem/internal/domain/model"
)

// Table is a header plus string rows, as read from a spreadsheet or CSV.
type Table struct {
	Header []string
	Rows   [][]string
}

// Result is the flat output of a normalization pass.
type Result struct {
	Submissions []model.Submission
	// DroppedRows counts participant rows with a blank player or unparseable timestamp.
	DroppedRows int
}

// Normalizer pairs pick and confidence columns per game.
type Normalizer struct {
	playerColumn     string
	timestampColumn  string
	confidenceSuffix string
	location         *time.Location
	layouts          []string
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		playerColumn:     DefaultPlayerColumn,
		timestampColumn:  DefaultTimestampColumn,
		confidenceSuffix: DefaultConfidenceSuffix,
		location:         time.UTC,
		layouts:          DefaultTimeLayouts,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type gameColumns struct {
	gameID     string
	pick       int
	confidence int
}

type layout struct {
	player    int
	timestamp int
	games     []gameColumns
}

// Normalize flattens t into one Submission per (row, game). Structural
// problems are returned as errors; bad participant rows are only counted.
func (n *Normalizer) Normalize(t Table, gameIDs []string) (Result, error) {
	l, err := n.resolveLayout(t.Header, gameIDs)
	if err != nil {
		return Result{}, err
	}

	res := Result{Submissions: make([]model.Submission, 0, len(t.Rows)*len(l.games))}
	for i, row := range t.Rows {
		player := cell(row, l.player)
		ts, ok := n.parseTime(cell(row, l.timestamp))
		if player == "" || !ok {
			res.DroppedRows++
			continue
		}
		for _, g := range l.games {
			res.Submissions = append(res.Submissions, model.Submission{
				Player:     player,
				Timestamp:  ts,
				GameID:     g.gameID,
				Pick:       cell(row, g.pick),
				Confidence: cell(row, g.confidence),
				Row:        i,
			})
		}
	}
	return res, nil
}

func (n *Normalizer) resolveLayout(header []string, gameIDs []string) (layout, error) {
	if len(gameIDs) == 0 {
		return layout{}, ErrNoGames
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := headerKey(h)
		if _, dup := index[key]; dup {
			index[key] = -1 // ambiguous, only fatal if someone asks for it
			continue
		}
		index[key] = i
	}

	lookup := func(name string) (int, error) {
		i, ok := index[headerKey(name)]
		switch {
		case !ok:
			return 0, errors.WithHintf(
				errors.Wrapf(ErrMissingColumn, "column %q", name),
				"the submissions header must contain a %q column", name)
		case i < 0:
			return 0, errors.WithHintf(
				errors.Wrapf(ErrColumnMismatch, "column %q appears more than once", name),
				"rename or remove the duplicate %q column", name)
		}
		return i, nil
	}

	var (
		l   layout
		err error
	)
	if l.player, err = lookup(n.playerColumn); err != nil {
		return layout{}, err
	}
	if l.timestamp, err = lookup(n.timestampColumn); err != nil {
		return layout{}, err
	}

	known := make(map[string]struct{}, len(gameIDs))
	for _, id := range gameIDs {
		pick, ok := index[headerKey(id)]
		if !ok || pick < 0 {
			return layout{}, n.mismatch(id, "game %q has no unique pick column", id)
		}
		conf, ok := index[headerKey(id+n.confidenceSuffix)]
		if !ok || conf < 0 {
			return layout{}, n.mismatch(id, "game %q has no unique confidence column %q", id, id+n.confidenceSuffix)
		}
		known[headerKey(id)] = struct{}{}
		l.games = append(l.games, gameColumns{gameID: id, pick: pick, confidence: conf})
	}

	suffix := headerKey(n.confidenceSuffix)
	for _, h := range header {
		key := headerKey(h)
		if !strings.HasSuffix(key, suffix) || key == suffix {
			continue
		}
		if _, ok := known[strings.TrimSuffix(key, suffix)]; !ok {
			return layout{}, errors.WithHintf(
				errors.Wrapf(ErrColumnMismatch, "confidence column %q has no matching game", strings.TrimSpace(h)),
				"every %q column must belong to a game in the round-set", n.confidenceSuffix)
		}
	}
	return l, nil
}

func (n *Normalizer) mismatch(gameID, format string, args ...any) error {
	return errors.WithHintf(
		errors.Wrapf(ErrColumnMismatch, format, args...),
		"expected columns %q and %q", gameID, gameID+n.confidenceSuffix)
}

func (n *Normalizer) parseTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range n.layouts {
		if ts, err := time.ParseInLocation(layout, raw, n.location); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func headerKey(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// cell returns the trimmed value at i, or "" for short rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
