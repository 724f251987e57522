// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/loadpulse/loadpulse/internal/domain/types"
)

// ACWRDependencies defines the interface for the workload ratio scatter view.
type ACWRDependencies interface {
	ACWRSeries(ctx context.Context) ([]types.ACWRPoint, error)
}

// ACWRHandler handles workload ratio requests.
type ACWRHandler struct {
	deps ACWRDependencies
}

// NewACWRHandler creates a new ACWR handler.
func NewACWRHandler(deps ACWRDependencies) *ACWRHandler {
	return &ACWRHandler{deps: deps}
}

// HandleACWR handles GET /api/v1/acwr requests.
func (h *ACWRHandler) HandleACWR(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_acwr"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	points, err := h.deps.ACWRSeries(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}
