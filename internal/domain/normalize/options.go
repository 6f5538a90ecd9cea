package normalize

import "time"

// Default column names and parsing settings.
const (
	DefaultPlayerColumn     = "player"
	DefaultTimestampColumn  = "timestamp"
	DefaultConfidenceSuffix = "_confidence"
)

// DefaultTimeLayouts are tried in order when parsing submission timestamps.
var DefaultTimeLayouts = []string{ //nolint:gochecknoglobals // read-only defaults
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006 15:04:05",
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithPlayerColumn sets the header of the player identity column.
func WithPlayerColumn(name string) Option {
	return func(n *Normalizer) {
		if name != "" {
			n.playerColumn = name
		}
	}
}

// WithTimestampColumn sets the header of the submission timestamp column.
func WithTimestampColumn(name string) Option {
	return func(n *Normalizer) {
		if name != "" {
			n.timestampColumn = name
		}
	}
}

// WithConfidenceSuffix sets the suffix that turns a game ID into its confidence column.
func WithConfidenceSuffix(suffix string) Option {
	return func(n *Normalizer) {
		if suffix != "" {
			n.confidenceSuffix = suffix
		}
	}
}

// WithLocation sets the location for timestamps that carry no zone.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.location = loc
		}
	}
}

// WithTimeLayouts replaces the accepted timestamp layouts.
func WithTimeLayouts(layouts ...string) Option {
	return func(n *Normalizer) {
		if len(layouts) > 0 {
			n.layouts = append([]string(nil), layouts...)
		}
	}
}
