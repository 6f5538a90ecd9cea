package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver

	"github.com/okian/pickem/internal/domain/normalize"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`) //nolint:gochecknoglobals // compiled once

// PostgresSource reads the tables from Postgres. The submissions table keeps
// the wide sheet layout; every column is read and converted to text.
type PostgresSource struct {
	db               *sqlx.DB
	submissionsTable string
	gamesTable       string
	settings         settings
}

// NewPostgres connects to dsn and validates the table names.
func NewPostgres(ctx context.Context, dsn, submissionsTable, gamesTable string, opts ...Option) (*PostgresSource, error) {
	for _, name := range []string{submissionsTable, gamesTable} {
		if err := CheckIdentifier(name); err != nil {
			return nil, err
		}
	}
	s := newSettings(opts)
	if err := CheckIdentifier(s.timestampColumn); err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &PostgresSource{db: db, submissionsTable: submissionsTable, gamesTable: gamesTable, settings: s}, nil
}

// Load reads both tables in one read-only transaction.
func (s *PostgresSource) Load(ctx context.Context) (Snapshot, error) {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin read: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	subs, err := queryTable(ctx, tx, submissionsQuery(s.submissionsTable, s.settings.timestampColumn))
	if err != nil {
		return Snapshot{}, fmt.Errorf("read submissions: %w", err)
	}

	gt, err := queryTable(ctx, tx, fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`,
		strings.Join(gameColumns, ", "), s.gamesTable, ColGameID))
	if err != nil {
		return Snapshot{}, fmt.Errorf("read games: %w", err)
	}
	games, err := ParseGames(gt, s.settings.location)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Submissions: subs, Games: games}, nil
}

// Close closes the database handle.
func (s *PostgresSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// submissionsQuery orders by timestamp, then by physical row position so rows
// sharing a timestamp keep the same relative order on every read.
func submissionsQuery(table, timestampColumn string) string {
	return fmt.Sprintf(`SELECT * FROM %s ORDER BY %s, ctid`, table, timestampColumn)
}

func queryTable(ctx context.Context, q sqlx.QueryerContext, query string) (normalize.Table, error) {
	rows, err := q.QueryxContext(ctx, query)
	if err != nil {
		return normalize.Table{}, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return normalize.Table{}, err
	}
	t := normalize.Table{Header: cols}
	for rows.Next() {
		m := make(map[string]interface{}, len(cols))
		if err := rows.MapScan(m); err != nil {
			return normalize.Table{}, err
		}
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = CellText(m[c])
		}
		t.Rows = append(t.Rows, row)
	}
	return t, rows.Err()
}

// CheckIdentifier rejects anything but a plain, optionally schema-qualified, name.
func CheckIdentifier(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// CellText renders a scanned database value the way a sheet cell would read.
func CellText(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
