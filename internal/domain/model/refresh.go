package model

import "time"

// RefreshRequest asks the service to reload inputs and rescore the contest.
type RefreshRequest struct {
	ID          string
	Reason      string
	RequestedAt time.Time
}
