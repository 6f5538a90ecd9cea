package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/pickem/internal/domain/types"
)

// ScoreboardDependencies defines the interface for scoreboard operations.
type ScoreboardDependencies interface {
	TopN(ctx context.Context, n int) ([]types.ScoreboardRow, error)
}

// ScoreboardHandler handles scoreboard requests.
type ScoreboardHandler struct {
	deps     ScoreboardDependencies
	maxLimit int
}

// NewScoreboardHandler creates a new scoreboard handler.
func NewScoreboardHandler(deps ScoreboardDependencies, maxLimit int) *ScoreboardHandler {
	return &ScoreboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetScoreboard handles GET /scoreboard?limit=N requests. Without a
// limit the first maxLimit rows are returned.
func (h *ScoreboardHandler) HandleGetScoreboard(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	n := h.maxLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit exceeds %d", ErrBadRequest, h.maxLimit))
			return
		}
		n = v
	}
	rows, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
