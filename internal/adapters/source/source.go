// Package source loads the submissions and games tables from external stores.
package source

import (
	"context"
	"time"

	"github.com/okian/pickem/internal/domain/model"
	"github.com/okian/pickem/internal/domain/normalize"
	"github.com/okian/pickem/internal/domain/pipeline"
)

// Snapshot is one consistent read of both input tables.
type Snapshot struct {
	Submissions normalize.Table
	Games       []model.Game
}

// Input converts the snapshot into pipeline input.
func (s Snapshot) Input() pipeline.Input {
	return pipeline.Input{Submissions: s.Submissions, Games: s.Games}
}

// Source loads a snapshot. Implementations must be safe for sequential reuse.
type Source interface {
	Load(ctx context.Context) (Snapshot, error)
	Close() error
}

// Option applies a configuration option to a source.
type Option func(*settings)

type settings struct {
	location        *time.Location
	timestampColumn string
}

func newSettings(opts []Option) settings {
	s := settings{location: time.UTC, timestampColumn: normalize.DefaultTimestampColumn}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLocation sets the location for game deadlines that carry no zone.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithTimestampColumn names the submissions timestamp column, used to order database reads.
func WithTimestampColumn(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.timestampColumn = name
		}
	}
}
