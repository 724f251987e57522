package recommend

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeights sets the ratio weights for the adjustment score. All three
// must be positive or the option is ignored.
func WithWeights(acute, hr, movement float64) Option {
	return func(e *Engine) {
		if acute > 0 && hr > 0 && movement > 0 {
			e.acuteWeight = acute
			e.hrWeight = hr
			e.movementWeight = movement
		}
	}
}

// WithACWRBounds sets the ACWR band. Below lower reads More, above upper
// reads Less, the band itself reads Same.
func WithACWRBounds(lower, upper float64) Option {
	return func(e *Engine) {
		if lower > 0 && upper > lower {
			e.acwrLower = lower
			e.acwrUpper = upper
		}
	}
}

// WithScoreBounds sets the adjustment-score band used to tighten a Same
// base label.
func WithScoreBounds(lower, upper float64) Option {
	return func(e *Engine) {
		if lower > 0 && upper > lower {
			e.scoreLower = lower
			e.scoreUpper = upper
		}
	}
}
