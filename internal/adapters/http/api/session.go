// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/loadpulse/loadpulse/pkg/metrics"
)

// SessionDependencies defines the interface for access key verification.
type SessionDependencies interface {
	VerifyAccessKey(ctx context.Context, key string) bool
}

// SessionHandler handles login and logout requests.
type SessionHandler struct {
	deps     SessionDependencies
	sessions *SessionManager
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies, sessions *SessionManager) *SessionHandler {
	return &SessionHandler{deps: deps, sessions: sessions}
}

// loginRequest mirrors the OpenAPI schema for POST /api/v1/session.
type loginRequest struct {
	AccessKey string `json:"access_key"`
}

func (l loginRequest) validate() error {
	if strings.TrimSpace(l.AccessKey) == "" {
		return errors.New("missing access_key")
	}
	return nil
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// HandleSession handles POST (login) and DELETE (logout) on /api/v1/session.
func (h *SessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleLogin(w, r)
	case http.MethodDelete:
		h.handleLogout(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	const op = "api.login"
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if !h.deps.VerifyAccessKey(r.Context(), req.AccessKey) {
		metrics.RecordLoginAttempt(false)
		writeError(w, http.StatusUnauthorized, "invalid_key", NewKind(op, ErrUnauthorized))
		return
	}
	metrics.RecordLoginAttempt(true)

	token, expiry := h.sessions.Issue()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.sessions.TTL() / time.Second),
	})
	writeJSON(w, http.StatusCreated, loginResponse{
		Token:     token,
		ExpiresAt: expiry.UTC().Format(time.RFC3339),
	})
}

func (h *SessionHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := tokenFromRequest(r); token != "" {
		h.sessions.Revoke(token)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}
