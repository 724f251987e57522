package recommend

import "errors"

// Sentinel kinds for recommendation errors.
var (
	ErrNoHistory = errors.New("no load history for athlete")
)
