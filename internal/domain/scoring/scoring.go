// Package scoring computes points for effective picks on completed games.
package scoring

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/okian/pickem/internal/domain/model"
)

const efficiencyPlaces = 4

var half = decimal.NewFromFloat(0.5) //nolint:gochecknoglobals // constant factor

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithPushToken sets the result token that marks a push.
func WithPushToken(token string) Option {
	return func(s *Scorer) {
		if t := strings.TrimSpace(token); t != "" {
			s.pushToken = t
		}
	}
}

// Summary aggregates one player's scored picks.
type Summary struct {
	Total decimal.Decimal
	// MaxPossible is Total plus the effective weight still riding on pending games.
	MaxPossible decimal.Decimal
	// Efficiency is Total divided by the effective weight on graded games.
	Efficiency decimal.Decimal
	Correct    int
	Graded     int
	Pending    int
}

// Scorer applies the outcome factor to effective confidence.
type Scorer struct {
	pushToken string
}

// NewScorer creates a Scorer with configuration options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{pushToken: model.PushResult}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score grades p against g. Incomplete or undetermined games stay pending
// with no points.
func (s *Scorer) Score(p model.EffectivePick, g model.Game) model.ScoredPick {
	sp := model.ScoredPick{EffectivePick: p, Status: model.StatusPending}
	result := s.Result(g)
	if !g.Complete || result == "" {
		return sp
	}

	weight := decimal.NewFromInt(int64(p.EffectiveConfidence))
	switch {
	case s.IsPush(result):
		sp.Status = model.StatusPush
		sp.Points = decimal.NewNullDecimal(weight.Mul(half))
	case p.HasSelection() && strings.EqualFold(strings.TrimSpace(p.Pick), result):
		sp.Status = model.StatusCorrect
		sp.Points = decimal.NewNullDecimal(weight)
	default:
		sp.Status = model.StatusIncorrect
		sp.Points = decimal.NewNullDecimal(decimal.Zero)
	}
	return sp
}

// Result returns the result of g, deriving a push as the configured token.
func (s *Scorer) Result(g model.Game) string {
	return g.ATSResult(s.pushToken)
}

// PushToken returns the configured push token.
func (s *Scorer) PushToken() string {
	return s.pushToken
}

// IsPush reports whether result is the configured push token.
func (s *Scorer) IsPush(result string) bool {
	return strings.EqualFold(strings.TrimSpace(result), s.pushToken)
}

// Summarize totals a player's scored picks.
func Summarize(picks []model.ScoredPick) Summary {
	sum := Summary{Total: decimal.Zero, Efficiency: decimal.Zero}
	graded, pending := decimal.Zero, decimal.Zero
	for _, p := range picks {
		w := decimal.NewFromInt(int64(p.EffectiveConfidence))
		if !p.Scored() {
			sum.Pending++
			pending = pending.Add(w)
			continue
		}
		sum.Graded++
		if p.Status == model.StatusCorrect {
			sum.Correct++
		}
		sum.Total = sum.Total.Add(p.Points.Decimal)
		graded = graded.Add(w)
	}
	sum.MaxPossible = sum.Total.Add(pending)
	if graded.IsPositive() {
		sum.Efficiency = sum.Total.DivRound(graded, efficiencyPlaces)
	}
	return sum
}
