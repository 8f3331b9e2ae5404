package engine

import (
	"github.com/ardnew/eidolon/lang"
	"github.com/ardnew/eidolon/log"
)

type config struct {
	logger     log.Logger
	maxDepth   int
	substitute bool
}

// Option configures an [Engine].
type Option func(*config)

// WithMaxDepth bounds parse nesting and evaluation recursion.
// See [lang.WithMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.maxDepth = max(depth, 0)
	}
}

// WithSubstitution enables textual replacement of $name references before
// parsing. See [lang.Substitute].
func WithSubstitution(enable bool) Option {
	return func(c *config) {
		c.substitute = enable
	}
}

// WithLogger sets the logger receiving the engine's internal trace and debug
// records. It does not receive evaluation log events; see [Engine.SetLogSink].
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func makeConfig(opts ...Option) config {
	c := config{maxDepth: lang.DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

func (c config) langOptions(emit func(lang.LogEvent)) []lang.Option {
	return []lang.Option{
		lang.WithMaxDepth(c.maxDepth),
		lang.WithLogger(c.logger),
		lang.WithEmitter(emit),
	}
}
