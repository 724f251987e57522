package ingest

import "strings"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithExtensions restricts the file extensions the Loader decodes.
// Extensions are matched case-insensitively and must include the dot.
func WithExtensions(exts ...string) Option {
	return func(l *Loader) {
		if len(exts) == 0 {
			return
		}
		cleaned := make([]string, 0, len(exts))
		for _, ext := range exts {
			cleaned = append(cleaned, strings.ToLower(ext))
		}
		l.exts = cleaned
	}
}
