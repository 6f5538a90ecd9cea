package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/pickem/internal/adapters/repository"
	"github.com/okian/pickem/internal/domain/types"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// RunStatsProvider returns the counters of the latest run.
type RunStatsProvider interface {
	RunStats(ctx context.Context) (types.RunStats, error)
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
	runs          RunStatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider, runs RunStatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, runs: runs}
}

type statsResponse struct {
	Service map[string]interface{} `json:"service"`
	Run     *types.RunStats        `json:"run,omitempty"`
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	resp := statsResponse{Service: h.statsProvider.GetStats()}
	rs, err := h.runs.RunStats(r.Context())
	switch {
	case err == nil:
		resp.Run = &rs
	case !errors.Is(err, repository.ErrNoSnapshot):
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
