// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/loadpulse/loadpulse/internal/domain/types"
)

// RecommendationsDependencies defines the interface for the recommendations view.
type RecommendationsDependencies interface {
	Recommendations(ctx context.Context) ([]types.AthleteRecommendation, error)
}

// RecommendationsHandler handles recommendation table requests.
type RecommendationsHandler struct {
	deps RecommendationsDependencies
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(deps RecommendationsDependencies) *RecommendationsHandler {
	return &RecommendationsHandler{deps: deps}
}

// HandleRecommendations handles GET /api/v1/recommendations requests.
func (h *RecommendationsHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_recommendations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	recs, err := h.deps.Recommendations(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
