package model

import (
	"strings"
	"time"
)

// PushResult is the result token of a tie against the spread.
const PushResult = "Push"

// Game is the metadata and (eventual) result of one game in the round-set.
type Game struct {
	GameID    string
	Deadline  time.Time
	Away      string
	Home      string
	Line      float64 // home spread, negative when the home side is favored
	AwayScore *int
	HomeScore *int
	Result    string // winner against the spread, the push token, or "" when undetermined
	Complete  bool
}

// ATSResult returns the recorded result, or derives it from the final score
// of a complete game when no result was recorded. A derived push is reported
// as push, or PushResult when push is blank.
func (g Game) ATSResult(push string) string {
	if r := strings.TrimSpace(g.Result); r != "" {
		return r
	}
	if !g.Complete || g.AwayScore == nil || g.HomeScore == nil {
		return ""
	}
	margin := float64(*g.HomeScore) + g.Line - float64(*g.AwayScore)
	switch {
	case margin > 0:
		return g.Home
	case margin < 0:
		return g.Away
	default:
		if push = strings.TrimSpace(push); push != "" {
			return push
		}
		return PushResult
	}
}
