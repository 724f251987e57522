// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/loadpulse/loadpulse/internal/domain/types"
)

// WellnessDependencies defines the interface for the wellness grid view.
type WellnessDependencies interface {
	WellnessGrid(ctx context.Context) (types.WellnessGrid, error)
}

// WellnessHandler handles wellness grid requests.
type WellnessHandler struct {
	deps WellnessDependencies
}

// NewWellnessHandler creates a new wellness handler.
func NewWellnessHandler(deps WellnessDependencies) *WellnessHandler {
	return &WellnessHandler{deps: deps}
}

// HandleWellness handles GET /api/v1/wellness requests.
func (h *WellnessHandler) HandleWellness(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_wellness"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	grid, err := h.deps.WellnessGrid(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, grid)
}
