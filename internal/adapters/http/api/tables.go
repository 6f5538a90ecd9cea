package api

import (
	"context"
	"net/http"

	"github.com/okian/pickem/internal/domain/types"
)

// TablesDependencies defines the run tables served as-is.
type TablesDependencies interface {
	Games(ctx context.Context) ([]types.GameResult, error)
	Picks(ctx context.Context) (types.PicksGrid, error)
}

// TablesHandler serves the game results and picks grid of the latest run.
type TablesHandler struct {
	deps TablesDependencies
}

// NewTablesHandler creates a new tables handler.
func NewTablesHandler(deps TablesDependencies) *TablesHandler {
	return &TablesHandler{deps: deps}
}

// HandleGetGames handles GET /games requests.
func (h *TablesHandler) HandleGetGames(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	games, err := h.deps.Games(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// HandleGetPicks handles GET /picks requests.
func (h *TablesHandler) HandleGetPicks(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	grid, err := h.deps.Picks(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}
