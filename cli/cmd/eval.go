package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/eidolon/engine"
	"github.com/ardnew/eidolon/lang"
	"github.com/ardnew/eidolon/log"
)

// Eval evaluates a program and prints the value of its last statement.
type Eval struct {
	Input   `embed:""`
	Globals `embed:""`

	Substitute bool `help:"Replace $name references textually before parsing."`
	MaxDepth   int  `default:"${maxDepth}" help:"Bound on nesting and recursion depth (0 disables)."`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	name, source, err := e.read(ctx)
	if err != nil {
		return err
	}

	globals, err := e.load(ctx)
	if err != nil {
		return err
	}

	logger := log.Default().With(slog.String("source", name))

	eng := engine.New(
		engine.WithLogger(logger),
		engine.WithMaxDepth(e.MaxDepth),
		engine.WithSubstitution(e.Substitute),
	)
	defer eng.Close()

	eng.SetLogSink(engine.LogTo(logger))

	result, err := eng.Evaluate(ctx, source, globals)
	if err != nil {
		return lang.WrapError(err).With(
			slog.String("command", "eval"),
			slog.String("source", name),
		)
	}

	// Deliver pending log events before the result is printed.
	if err := eng.Sync(ctx); err != nil {
		return err
	}

	_, err = fmt.Fprintln(outputFrom(ctx), result)

	return err
}
