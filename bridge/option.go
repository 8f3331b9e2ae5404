package bridge

import (
	"github.com/ardnew/eidolon/engine"
	"github.com/ardnew/eidolon/log"
)

type config struct {
	logger log.Logger
	engine []engine.Option
}

// Option configures the MCP server.
type Option func(*config)

// WithLogger sets the logger for tool call tracing. It is also passed to
// each engine the server creates.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithEngineOptions appends options applied to every engine the evaluate
// tool creates. Per-call arguments override them.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(c *config) {
		c.engine = append(c.engine, opts...)
	}
}

func makeConfig(opts ...Option) config {
	var c config

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}
