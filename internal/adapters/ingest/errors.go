package ingest

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for ingest errors.
var (
	ErrNoInput = errors.New("no input files found")
)

// MissingColumnsError reports every required column absent from a sheet,
// so one upload round-trip surfaces the whole problem.
type MissingColumnsError struct {
	File    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.File, strings.Join(e.Columns, ", "))
}
