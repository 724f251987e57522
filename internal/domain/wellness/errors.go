package wellness

import "errors"

// Sentinel kinds for wellness errors.
var (
	ErrNoEntries = errors.New("no wellness entries")
)
