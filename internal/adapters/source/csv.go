package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/okian/pickem/internal/domain/normalize"
)

// CSVSource reads both tables from CSV files on every Load.
type CSVSource struct {
	submissionsPath string
	gamesPath       string
	settings        settings
}

// NewCSV creates a CSV source for the given files.
func NewCSV(submissionsPath, gamesPath string, opts ...Option) *CSVSource {
	return &CSVSource{
		submissionsPath: submissionsPath,
		gamesPath:       gamesPath,
		settings:        newSettings(opts),
	}
}

// Load reads and parses both files.
func (s *CSVSource) Load(ctx context.Context) (Snapshot, error) {
	subs, err := readCSVFile(s.submissionsPath)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read submissions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	gt, err := readCSVFile(s.gamesPath)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read games: %w", err)
	}
	games, err := ParseGames(gt, s.settings.location)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Submissions: subs, Games: games}, nil
}

// Close is a no-op; files are opened per Load.
func (s *CSVSource) Close() error { return nil }

func readCSVFile(path string) (normalize.Table, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return normalize.Table{}, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f)
}

// ReadCSV reads a header row followed by data rows. Rows may be ragged.
func ReadCSV(r io.Reader) (normalize.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return normalize.Table{}, err
	}
	if len(records) == 0 {
		return normalize.Table{}, ErrEmptyTable
	}
	return normalize.Table{Header: records[0], Rows: records[1:]}, nil
}

// WriteCSV writes t as CSV.
func WriteCSV(w io.Writer, t normalize.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
