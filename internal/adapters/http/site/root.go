// Package site serves the embedded coach dashboard.
package site

import (
	"context"
	"errors"
	"net/http"
)

// ErrServe marks failures while serving the dashboard assets.
var ErrServe = errors.New("dashboard serve failed")

// Register attaches the embedded dashboard routes to mux. The page and its
// assets are public; the data endpoints behind them still demand a session.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	// Serve the embedded dashboard at root /
	files := http.FileServer(FS())
	mux.Handle("/", files)
}
