package service

import (
	"context"
	"fmt"

	"github.com/okian/pickem/internal/adapters/source"
	"github.com/okian/pickem/internal/config"
	"github.com/okian/pickem/internal/domain/normalize"
	"github.com/okian/pickem/internal/domain/pipeline"
	"github.com/okian/pickem/internal/domain/scoring"
)

// NewSource builds the source selected by cfg.SourceKind.
func NewSource(ctx context.Context, cfg *config.Config) (source.Source, error) {
	opts := []source.Option{
		source.WithLocation(cfg.Location()),
		source.WithTimestampColumn(cfg.TimestampColumn),
	}

	switch cfg.SourceKind {
	case config.SourceCSV:
		return source.NewCSV(cfg.SubmissionsPath, cfg.GamesPath, opts...), nil
	case config.SourcePostgres:
		return source.NewPostgres(ctx, cfg.PostgresDSN, cfg.SubmissionsTable, cfg.GamesTable, opts...)
	case config.SourceSheets:
		return source.NewSheets(ctx, cfg.SheetsCredentials, cfg.SheetsSpreadsheetID,
			cfg.SheetsSubmissionsRange, cfg.SheetsGamesRange, opts...)
	default:
		return nil, fmt.Errorf("unknown source kind: %s", cfg.SourceKind)
	}
}

// PipelineOptions maps the submissions layout and scoring settings in cfg to
// pipeline options.
func PipelineOptions(cfg *config.Config) []pipeline.Option {
	norm := normalize.New(
		normalize.WithPlayerColumn(cfg.PlayerColumn),
		normalize.WithTimestampColumn(cfg.TimestampColumn),
		normalize.WithConfidenceSuffix(cfg.ConfidenceSuffix),
		normalize.WithLocation(cfg.Location()),
	)
	return []pipeline.Option{
		pipeline.WithNormalizer(norm),
		pipeline.WithScorer(scoring.NewScorer(scoring.WithPushToken(cfg.PushToken))),
		pipeline.WithWorkers(cfg.PipelineWorkers),
	}
}
