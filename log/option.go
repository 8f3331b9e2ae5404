package log

// Option configures a [Logger].
type Option func(*config)

// apply returns a copy of c with opts applied in order.
func (c config) apply(opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}
