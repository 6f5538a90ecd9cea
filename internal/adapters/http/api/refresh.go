package api

import (
	"context"
	"net/http"
)

// refreshReason tags refreshes requested over HTTP.
const refreshReason = "api"

// RefreshDependencies defines the interface for queuing refreshes.
type RefreshDependencies interface {
	RequestRefresh(ctx context.Context, reason string) (string, error)
}

// RefreshHandler handles refresh requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

type refreshResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
}

// HandlePostRefresh handles POST /refresh requests.
func (h *RefreshHandler) HandlePostRefresh(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	id, err := h.deps.RequestRefresh(r.Context(), refreshReason)
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, refreshResponse{Status: "accepted", RequestID: id})
}
