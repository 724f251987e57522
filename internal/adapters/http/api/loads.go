// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/loadpulse/loadpulse/internal/domain/types"
)

// LoadsDependencies defines the interface for per-athlete history lookups.
type LoadsDependencies interface {
	AthleteHistory(ctx context.Context, athlete string) (types.AthleteHistory, error)
}

// LoadsHandler handles per-athlete load history requests.
type LoadsHandler struct {
	deps LoadsDependencies
}

// NewLoadsHandler creates a new loads handler.
func NewLoadsHandler(deps LoadsDependencies) *LoadsHandler {
	return &LoadsHandler{deps: deps}
}

// HandleAthleteLoads handles GET /api/v1/athletes/{name}/loads requests.
func (h *LoadsHandler) HandleAthleteLoads(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_athlete_loads"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter between /api/v1/athletes/ and /loads
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/athletes/")
	name, ok := strings.CutSuffix(path, "/loads")
	if !ok || name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	history, err := h.deps.AthleteHistory(r.Context(), name)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
