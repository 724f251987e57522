package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesFromClock converts a clock-style duration to minutes.
// Exports report zone time as hh:mm:ss; hh:mm is accepted as well.
// Seconds may carry a decimal fraction.
func MinutesFromClock(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("malformed clock duration %q", s)
	}

	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("malformed clock duration %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("malformed clock duration %q: %w", s, err)
	}

	var seconds float64
	if len(parts) == 3 {
		seconds, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return 0, fmt.Errorf("malformed clock duration %q: %w", s, err)
		}
	}

	if hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("negative clock duration %q", s)
	}

	return float64(hours)*60 + float64(minutes) + seconds/60, nil
}
