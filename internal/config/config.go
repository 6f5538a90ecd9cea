// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) initializer to build a Config with defaults.
// - Load layers a config file and environment variables over the defaults.
// - Errors wrap this package's sentinel kinds.
package config

import (
	"context"
	"runtime"
	"time"
	_ "time/tzdata" // embedded zoneinfo
)

// Source kinds.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
	SourceSheets   = "sheets"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// QueueSize bounds the in-memory refresh queue.
	QueueSize int `koanf:"queue_size" validate:"min=1"`

	// WorkerCount sets the number of refresh workers.
	WorkerCount int `koanf:"worker_count" validate:"min=1"`

	// PipelineWorkers sets the pool size for cross-player scoring.
	PipelineWorkers int `koanf:"pipeline_workers" validate:"min=1"`

	// RefreshIntervalSec schedules periodic refreshes; 0 disables them.
	RefreshIntervalSec int `koanf:"refresh_interval_sec" validate:"min=0"`

	// MaxScoreboardLimit caps GET /scoreboard?limit.
	MaxScoreboardLimit int `koanf:"max_scoreboard_limit" validate:"min=1"`

	// SourceKind selects where submissions and games are loaded from.
	SourceKind string `koanf:"source_kind" validate:"oneof=csv postgres sheets"`

	// SubmissionsPath and GamesPath are CSV files for the csv source.
	SubmissionsPath string `koanf:"submissions_path" validate:"required_if=SourceKind csv"`
	GamesPath       string `koanf:"games_path" validate:"required_if=SourceKind csv"`

	// PostgresDSN, SubmissionsTable and GamesTable configure the postgres source.
	PostgresDSN      string `koanf:"postgres_dsn" validate:"required_if=SourceKind postgres"`
	SubmissionsTable string `koanf:"submissions_table" validate:"required_if=SourceKind postgres"`
	GamesTable       string `koanf:"games_table" validate:"required_if=SourceKind postgres"`

	// Sheets* configure the Google Sheets source.
	SheetsCredentials      string `koanf:"sheets_credentials"`
	SheetsSpreadsheetID    string `koanf:"sheets_spreadsheet_id" validate:"required_if=SourceKind sheets"`
	SheetsSubmissionsRange string `koanf:"sheets_submissions_range" validate:"required_if=SourceKind sheets"`
	SheetsGamesRange       string `koanf:"sheets_games_range" validate:"required_if=SourceKind sheets"`

	// Timezone is the contest location for timestamps without a zone.
	Timezone string `koanf:"timezone" validate:"required,timezone"`

	// PlayerColumn, TimestampColumn and ConfidenceSuffix describe the submissions header.
	PlayerColumn     string `koanf:"player_column" validate:"required"`
	TimestampColumn  string `koanf:"timestamp_column" validate:"required"`
	ConfidenceSuffix string `koanf:"confidence_suffix" validate:"required"`

	// PushToken is the result value that marks a tie against the spread.
	PushToken string `koanf:"push_token" validate:"required"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":9080",
		QueueSize:              16,
		WorkerCount:            1,
		PipelineWorkers:        runtime.NumCPU(),
		RefreshIntervalSec:     0,
		MaxScoreboardLimit:     100,
		SourceKind:             SourceCSV,
		SubmissionsPath:        "data/submissions.csv",
		GamesPath:              "data/games.csv",
		SubmissionsTable:       "submissions",
		GamesTable:             "games",
		SheetsSubmissionsRange: "Form Responses 1",
		SheetsGamesRange:       "Games",
		Timezone:               "America/New_York",
		PlayerColumn:           "player",
		TimestampColumn:        "timestamp",
		ConfidenceSuffix:       "_confidence",
		PushToken:              "Push",
	}
}

// Location returns the contest time zone. The name is validated on load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RefreshInterval returns the periodic refresh interval, 0 when disabled.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}
