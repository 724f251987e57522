// Package api declares HTTP contracts and route registration helpers.
package api

import "time"

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithSessionTTL sets how long issued sessions stay valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessions = NewSessionManager(ttl)
		}
	}
}
