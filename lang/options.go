package lang

import (
	"github.com/ardnew/eidolon/log"
)

// DefaultMaxDepth is the default bound on syntactic nesting and evaluation
// recursion. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 512

// config holds parser and evaluator settings.
type config struct {
	logger   log.Logger
	emit     func(LogEvent)
	maxDepth int
}

// Option configures parsing and evaluation.
type Option func(*config)

// WithMaxDepth bounds the nesting depth accepted by the parser and the
// recursion depth of the evaluator. A depth of 0 disables the bound.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = max(depth, 0)
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithEmitter sets the function receiving [LogEvent] values produced during
// evaluation. Events are dropped if no emitter is set.
func WithEmitter(emit func(LogEvent)) Option {
	return func(c *config) {
		c.emit = emit
	}
}

func makeConfig(opts ...Option) config {
	c := config{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// exceeds reports whether depth is beyond the configured bound.
func (c config) exceeds(depth int) bool {
	return c.maxDepth > 0 && depth > c.maxDepth
}
