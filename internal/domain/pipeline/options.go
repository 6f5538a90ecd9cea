package pipeline

import (
	"github.com/okian/pickem/internal/domain/normalize"
	"github.com/okian/pickem/internal/domain/scoring"
)

// Option applies a configuration option to a pipeline run.
type Option func(*settings)

type settings struct {
	workers    int
	normalizer *normalize.Normalizer
	scorer     *scoring.Scorer
}

// WithWorkers fans players out over n pool workers. n <= 1 runs sequentially.
func WithWorkers(n int) Option {
	return func(s *settings) {
		s.workers = n
	}
}

// WithNormalizer sets the normalizer used for the submissions table.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *settings) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithScorer sets the scorer used for completed games.
func WithScorer(sc *scoring.Scorer) Option {
	return func(s *settings) {
		if sc != nil {
			s.scorer = sc
		}
	}
}
