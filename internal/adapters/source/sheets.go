package source

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/okian/pickem/internal/domain/normalize"
)

// SheetsSource reads both tables from ranges of one Google spreadsheet.
// The first row of each range is the header.
type SheetsSource struct {
	svc              *sheets.Service
	spreadsheetID    string
	submissionsRange string
	gamesRange       string
	settings         settings
}

// NewSheets creates a Sheets source. An empty credentialsFile uses the
// application default credentials.
func NewSheets(ctx context.Context, credentialsFile, spreadsheetID, submissionsRange, gamesRange string, opts ...Option) (*SheetsSource, error) {
	var clientOpts []option.ClientOption
	if credentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsSource{
		svc:              svc,
		spreadsheetID:    spreadsheetID,
		submissionsRange: submissionsRange,
		gamesRange:       gamesRange,
		settings:         newSettings(opts),
	}, nil
}

// Load reads both ranges.
func (s *SheetsSource) Load(ctx context.Context) (Snapshot, error) {
	subs, err := s.readRange(ctx, s.submissionsRange)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read submissions: %w", err)
	}
	gt, err := s.readRange(ctx, s.gamesRange)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read games: %w", err)
	}
	games, err := ParseGames(gt, s.settings.location)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Submissions: subs, Games: games}, nil
}

// Close is a no-op; the HTTP client needs no teardown.
func (s *SheetsSource) Close() error { return nil }

func (s *SheetsSource) readRange(ctx context.Context, rng string) (normalize.Table, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return normalize.Table{}, err
	}
	return ValuesToTable(resp.Values)
}

// ValuesToTable turns a sheet value range into a table, first row as header.
func ValuesToTable(values [][]interface{}) (normalize.Table, error) {
	if len(values) == 0 {
		return normalize.Table{}, ErrEmptyTable
	}
	toRow := func(in []interface{}) []string {
		out := make([]string, len(in))
		for i, v := range in {
			out[i] = CellText(v)
		}
		return out
	}
	t := normalize.Table{Header: toRow(values[0])}
	for _, r := range values[1:] {
		t.Rows = append(t.Rows, toRow(r))
	}
	return t, nil
}
