// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/loadpulse/loadpulse/internal/domain/types"
)

// PlanDependencies defines the interface for the printable plan view.
type PlanDependencies interface {
	TrainingPlan(ctx context.Context) (types.TrainingPlan, error)
}

// PlanHandler handles training plan requests.
type PlanHandler struct {
	deps PlanDependencies
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(deps PlanDependencies) *PlanHandler {
	return &PlanHandler{deps: deps}
}

// HandlePlan handles GET /api/v1/recommendations/plan requests.
func (h *PlanHandler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_plan"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	plan, err := h.deps.TrainingPlan(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
