// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loadpulse/loadpulse/pkg/metrics"
)

// SessionCookie is the cookie the browser UI stores its token in.
const SessionCookie = "loadpulse_session"

// defaultSessionTTL bounds how long a login stays valid unless configured.
const defaultSessionTTL = 12 * time.Hour

// sessionKey is the context key for the request's session token.
type sessionKey struct{}

// SessionManager issues and validates opaque session tokens. Tokens are
// random UUIDs; the shared secret itself is never stored here.
type SessionManager struct {
	mu      sync.Mutex
	ttl     time.Duration
	expires map[string]time.Time
	now     func() time.Time
}

// NewSessionManager creates a manager whose sessions last ttl.
func NewSessionManager(ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionManager{
		ttl:     ttl,
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Issue creates a fresh session token and returns it with its expiry.
func (m *SessionManager) Issue() (string, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	token := uuid.NewString()
	expiry := m.now().Add(m.ttl)
	m.expires[token] = expiry
	metrics.UpdateActiveSessions(len(m.expires))
	return token, expiry
}

// Valid reports whether token belongs to an unexpired session.
func (m *SessionManager) Valid(token string) bool {
	if token == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	_, ok := m.expires[token]
	return ok
}

// Revoke forgets a session token. Unknown tokens are ignored.
func (m *SessionManager) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.expires, token)
	metrics.UpdateActiveSessions(len(m.expires))
}

// ActiveCount returns the number of unexpired sessions.
func (m *SessionManager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	return len(m.expires)
}

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) pruneLocked() {
	now := m.now()
	for token, expiry := range m.expires {
		if now.After(expiry) {
			delete(m.expires, token)
		}
	}
}

// RequireSession rejects requests without a live session and stores the
// token in the request context for downstream handlers.
func (s *Server) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if !s.sessions.Valid(token) {
			writeError(w, http.StatusUnauthorized, "unauthorized", ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), token)))
	}
}

// tokenFromRequest reads the session token from the Authorization header
// or, for the browser UI, the session cookie.
func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func withSession(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionKey{}, token)
}

// SessionFromContext returns the session token RequireSession attached.
func SessionFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionKey{}).(string)
	return token, ok
}
