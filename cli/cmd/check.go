package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/ardnew/eidolon/lang"
	"github.com/ardnew/eidolon/log"
)

// Check evaluates a program twice, directly and through the expr-lang
// reference evaluator, and fails if the two disagree.
type Check struct {
	Input   `embed:""`
	Globals `embed:""`

	Tolerance float64 `default:"1e-9" help:"Relative tolerance for comparing numbers."`
	Show      bool    `help:"Print the translated reference expression." short:"s"`
}

// outcome is the result of one evaluator.
type outcome struct {
	err   error
	value lang.Value
}

func (o outcome) String() string {
	if o.err != nil {
		return "error: " + o.err.Error()
	}

	return o.value.String()
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, err := parse(ctx, &c.Input, "check")
	if err != nil {
		return err
	}

	globals, err := c.load(ctx)
	if err != nil {
		return err
	}

	out := outputFrom(ctx)

	if c.Show {
		expr, err := lang.Translate(prog, globals)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "reference\t%s\n", expr)
	}

	var direct, reference outcome

	direct.value, direct.err = lang.Evaluate(ctx, prog, lang.NewEnvironment(globals),
		lang.WithLogger(log.Default()))
	reference.value, reference.err = lang.Reference(prog, globals)

	log.DebugContext(ctx, "check",
		slog.String("direct", direct.String()),
		slog.String("reference", reference.String()),
	)

	if !c.agree(direct, reference) {
		return ErrMismatch.With(
			slog.String("direct", direct.String()),
			slog.String("reference", reference.String()),
		)
	}

	_, err = fmt.Fprintf(out, "ok\t%s\n", direct)

	return err
}

// agree reports whether both evaluators failed in the same category or both
// produced equal values.
func (c *Check) agree(a, b outcome) bool {
	if a.err != nil || b.err != nil {
		if a.err == nil || b.err == nil {
			return false
		}

		// expr-lang does not preserve the cause of a failed function call.
		return errors.Is(b.err, lang.ErrReference) || category(a.err) == category(b.err)
	}

	x, xok := a.value.Float()
	y, yok := b.value.Float()

	if !xok || !yok {
		return a.value.Equal(b.value)
	}

	scale := math.Max(1, math.Max(math.Abs(x), math.Abs(y)))

	return math.Abs(x-y) <= c.Tolerance*scale
}

// category returns the first sentinel err matches, or err itself. Division
// by zero is a domain error, since the reference evaluator divides in IEEE
// arithmetic and reports the infinite result.
func category(err error) error {
	if errors.Is(err, lang.ErrDivideByZero) {
		return lang.ErrDomain
	}

	for _, sentinel := range []error{
		lang.ErrLex,
		lang.ErrParse,
		lang.ErrUnboundVariable,
		lang.ErrUnknownFunction,
		lang.ErrArityMismatch,
		lang.ErrTypeMismatch,
		lang.ErrDomain,
		lang.ErrMaxDepthExceeded,
	} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}

	return err
}
