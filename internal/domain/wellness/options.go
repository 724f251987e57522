package wellness

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithDisplayDays sets the length of the display window in days.
func WithDisplayDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.displayDays = days
		}
	}
}

// WithBaselineDays sets the length of the baseline window in days.
func WithBaselineDays(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.baselineDays = days
		}
	}
}

// WithMetrics replaces the metric list shown in the grid.
func WithMetrics(metrics []string) Option {
	return func(e *Engine) {
		if len(metrics) > 0 {
			e.metrics = append([]string(nil), metrics...)
		}
	}
}
