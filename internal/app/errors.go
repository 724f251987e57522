package app

import "errors"

// Sentinel kinds for service errors.
var (
	ErrUnknownAthlete = errors.New("unknown athlete")
)
