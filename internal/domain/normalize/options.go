package normalize

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithMinTRIMP sets the TRIMP floor below which a raw row is discarded
// as a sensor artifact.
func WithMinTRIMP(v float64) Option {
	return func(n *Normalizer) {
		n.minTRIMP = v
	}
}

// WithMinMovementLoad sets the movement-load floor below which a raw row
// is discarded as a sensor artifact.
func WithMinMovementLoad(v float64) Option {
	return func(n *Normalizer) {
		n.minMovementLoad = v
	}
}
