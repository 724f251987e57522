// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/loadpulse/loadpulse/internal/adapters/ingest"
	"github.com/loadpulse/loadpulse/internal/app"
	"github.com/loadpulse/loadpulse/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// VerifyAccessKey checks a submitted shared secret.
	VerifyAccessKey(ctx context.Context, key string) bool

	// Read operations expose the dashboard views.
	Recommendations(ctx context.Context) ([]types.AthleteRecommendation, error)
	TrainingPlan(ctx context.Context) (types.TrainingPlan, error)
	ACWRSeries(ctx context.Context) ([]types.ACWRPoint, error)
	WellnessGrid(ctx context.Context) (types.WellnessGrid, error)
	AthleteHistory(ctx context.Context, athlete string) (types.AthleteHistory, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	sessions *SessionManager

	healthHandler          *HealthHandler
	statsHandler           *StatsHandler
	sessionHandler         *SessionHandler
	recommendationsHandler *RecommendationsHandler
	planHandler            *PlanHandler
	acwrHandler            *ACWRHandler
	wellnessHandler        *WellnessHandler
	loadsHandler           *LoadsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		sessions: NewSessionManager(defaultSessionTTL),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.sessionHandler = NewSessionHandler(deps, s.sessions)
	s.recommendationsHandler = NewRecommendationsHandler(deps)
	s.planHandler = NewPlanHandler(deps)
	s.acwrHandler = NewACWRHandler(deps)
	s.wellnessHandler = NewWellnessHandler(deps)
	s.loadsHandler = NewLoadsHandler(deps)

	return s
}

// Register attaches all HTTP routes to mux. Everything except the health
// probe, stats and the session endpoint sits behind the session gate.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/v1/session", MetricsMiddleware(s.sessionHandler.HandleSession, "session"))
	mux.HandleFunc("/api/v1/recommendations", MetricsMiddleware(s.RequireSession(s.recommendationsHandler.HandleRecommendations), "recommendations"))
	mux.HandleFunc("/api/v1/recommendations/plan", MetricsMiddleware(s.RequireSession(s.planHandler.HandlePlan), "plan"))
	mux.HandleFunc("/api/v1/acwr", MetricsMiddleware(s.RequireSession(s.acwrHandler.HandleACWR), "acwr"))
	mux.HandleFunc("/api/v1/wellness", MetricsMiddleware(s.RequireSession(s.wellnessHandler.HandleWellness), "wellness"))
	mux.HandleFunc("/api/v1/athletes/", MetricsMiddleware(s.RequireSession(s.loadsHandler.HandleAthleteLoads), "athlete_loads"))
}

// Sessions exposes the session manager for gauges and tests.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Columns []string `json:"columns,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates upstream failures into API responses: empty
// export directories read as 404, schema problems as 422 with the full
// column list, anything else as 500.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	var missing *ingest.MissingColumnsError
	switch {
	case errors.As(err, &missing):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:    "missing_columns",
			Message: missing.Error(),
			Columns: missing.Columns,
		})
	case errors.Is(err, ingest.ErrNoInput):
		writeError(w, http.StatusNotFound, "no_data", Wrap(op, err))
	case errors.Is(err, app.ErrUnknownAthlete):
		writeError(w, http.StatusNotFound, "unknown_athlete", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
