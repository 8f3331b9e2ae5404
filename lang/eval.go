package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
)

// evaluator walks an AST against one Environment.
type evaluator struct {
	ctx   context.Context
	env   *Environment
	cfg   config
	depth int
}

// Evaluate runs the statements of prog in order against env and returns the
// value of the last statement. A let statement yields the value it binds.
//
// Evaluation halts at the first error. Bindings committed by statements
// before the failing one remain in env. The context is checked before each
// statement and each builtin call; once it is done, Evaluate returns
// [context.Cause].
func Evaluate(
	ctx context.Context,
	prog *Program,
	env *Environment,
	opts ...Option,
) (Value, error) {
	ev := &evaluator{ctx: ctx, env: env, cfg: makeConfig(opts...)}

	if prog == nil || len(prog.Statements) == 0 {
		return Value{}, &ParseError{
			Pos: Position{Line: 1, Column: 1},
			Msg: ErrEmptyProgram.msg,
			err: ErrEmptyProgram,
		}
	}

	var result Value

	for i, stmt := range prog.Statements {
		if err := ctx.Err(); err != nil {
			return Value{}, context.Cause(ctx)
		}

		v, err := ev.eval(stmt)
		if err != nil {
			ev.cfg.logger.TraceContext(ctx, "evaluate failed",
				slog.Int("statement", i),
				slog.Any("error", err),
			)

			return Value{}, err
		}

		result = v
	}

	ev.cfg.logger.TraceContext(ctx, "evaluate complete",
		slog.Int("statements", len(prog.Statements)),
		slog.Any("result", result),
	)

	return result, nil
}

// EvaluateString parses source and evaluates it in a fresh [Environment]
// seeded from globals.
func EvaluateString(
	ctx context.Context,
	source string,
	globals Globals,
	opts ...Option,
) (Value, error) {
	prog, err := ParseString(ctx, source, opts...)
	if err != nil {
		return Value{}, err
	}

	return Evaluate(ctx, prog, NewEnvironment(globals), opts...)
}

func (ev *evaluator) emit(level LogLevel, msg string) {
	if ev.cfg.emit != nil {
		ev.cfg.emit(LogEvent{Level: level, Message: msg})
	}
}

// nested evaluates n one level below the current node. Depth is counted
// per operand, as the parser counts it, so a program accepted by the parser
// never exceeds the same bound during evaluation.
func (ev *evaluator) nested(n Node) (Value, error) {
	ev.depth++
	defer func() { ev.depth-- }()

	if ev.cfg.exceeds(ev.depth) {
		return Value{}, &ParseError{
			Pos: n.Pos(),
			Msg: "nesting deeper than " + strconv.Itoa(ev.cfg.maxDepth),
			err: ErrMaxDepthExceeded.With(slog.Int("max_depth", ev.cfg.maxDepth)),
		}
	}

	return ev.eval(n)
}

func (ev *evaluator) eval(n Node) (Value, error) {
	switch n := n.(type) {
	case *NumberLiteral:
		return NumberValue(n.Value), nil

	case *StringLiteral:
		return StringValue(n.Value), nil

	case *GlobalRef:
		if v, ok := ev.env.Global(n.Name); ok {
			if !v.finite() {
				return Value{}, &DomainError{Name: "$" + n.Name, Pos: n.Start}
			}

			return v, nil
		}

		return Value{}, &UnboundVariableError{Name: n.Name, Global: true, Pos: n.Start}

	case *Identifier:
		if b, ok := LookupBuiltin(n.Name); ok {
			return ev.apply(b, nil, n.Start)
		}

		if v, ok := ev.env.Lookup(n.Name); ok {
			return v, nil
		}

		return Value{}, &UnboundVariableError{Name: n.Name, Pos: n.Start}

	case *LetBinding:
		v, err := ev.eval(n.Value)
		if err != nil {
			return Value{}, err
		}

		if _, ok := LookupBuiltin(n.Name); ok {
			ev.emit(LogWarn, "binding "+strconv.Quote(n.Name)+" shadowed by builtin")
		}

		ev.env.Bind(n.Name, v)

		return v, nil

	case *UnaryOp:
		return ev.unary(n)

	case *BinaryOp:
		return ev.binary(n)

	case *Call:
		return ev.call(n)

	default:
		return Value{}, fmt.Errorf("unsupported node %T", n)
	}
}

func (ev *evaluator) unary(n *UnaryOp) (Value, error) {
	v, err := ev.nested(n.Operand)
	if err != nil {
		return Value{}, err
	}

	f, ok := v.Float()
	if !ok {
		return Value{}, &TypeMismatchError{
			Name: "unary '" + n.Op + "'",
			Want: ValueNumber,
			Got:  v.Kind(),
			Pos:  n.Operand.Pos(),
		}
	}

	return NumberValue(-f), nil
}

// binary folds the left spine of n iteratively, so a chain such as
// 1 + 2 + 3 + ... costs one level of depth however long it is.
func (ev *evaluator) binary(n *BinaryOp) (Value, error) {
	spine := []*BinaryOp{n}

	for {
		left, ok := spine[len(spine)-1].Left.(*BinaryOp)
		if !ok {
			break
		}

		spine = append(spine, left)
	}

	acc, err := ev.nested(spine[len(spine)-1].Left)
	if err != nil {
		return Value{}, err
	}

	for i := len(spine) - 1; i >= 0; i-- {
		rv, err := ev.nested(spine[i].Right)
		if err != nil {
			return Value{}, err
		}

		if acc, err = ev.combine(spine[i], acc, rv); err != nil {
			return Value{}, err
		}
	}

	return acc, nil
}

// combine applies the operator of n to operands already evaluated.
func (ev *evaluator) combine(n *BinaryOp, lv, rv Value) (Value, error) {
	l, err := ev.number(lv, "'"+n.Op+"'", n.Left)
	if err != nil {
		return Value{}, err
	}

	r, err := ev.number(rv, "'"+n.Op+"'", n.Right)
	if err != nil {
		return Value{}, err
	}

	var f float64

	switch n.Op {
	case "+":
		f = l + r
	case "-":
		f = l - r
	case "*":
		f = l * r
	case "/":
		if r == 0 {
			return Value{}, &DivideByZeroError{Pos: n.Start}
		}

		f = l / r
	case "^":
		f = math.Pow(l, r)
	default:
		return Value{}, fmt.Errorf("unsupported operator %q", n.Op)
	}

	if !finite(f) && finite(l) && finite(r) {
		return Value{}, &DomainError{Name: "'" + n.Op + "'", Pos: n.Start}
	}

	return NumberValue(f), nil
}

func (ev *evaluator) number(v Value, name string, at Node) (float64, error) {
	f, ok := v.Float()
	if !ok {
		return 0, &TypeMismatchError{
			Name: name,
			Want: ValueNumber,
			Got:  v.Kind(),
			Pos:  at.Pos(),
		}
	}

	return f, nil
}

func (ev *evaluator) call(n *Call) (Value, error) {
	if err := ev.ctx.Err(); err != nil {
		return Value{}, context.Cause(ev.ctx)
	}

	b, ok := LookupBuiltin(n.Name)
	if !ok {
		return Value{}, &UnknownFunctionError{Name: n.Name, Pos: n.Start}
	}

	if len(n.Args) != b.Arity() {
		return Value{}, &ArityMismatchError{
			Name:     n.Name,
			Expected: b.Arity(),
			Got:      len(n.Args),
			Pos:      n.Start,
		}
	}

	args := make([]Value, len(n.Args))

	for i, arg := range n.Args {
		v, err := ev.nested(arg)
		if err != nil {
			return Value{}, err
		}

		if b.numeric() {
			if _, err := ev.number(v, n.Name, arg); err != nil {
				return Value{}, err
			}
		}

		args[i] = v
	}

	return ev.apply(b, args, n.Start)
}

// apply invokes b with evaluated args. A bare identifier naming a builtin
// is applied with no arguments.
func (ev *evaluator) apply(b Builtin, args []Value, at Position) (Value, error) {
	if len(args) != b.Arity() {
		return Value{}, &ArityMismatchError{
			Name:     b.Name,
			Expected: b.Arity(),
			Got:      len(args),
			Pos:      at,
		}
	}

	v, err := b.invoke(args, ev.cfg.emit)
	if err != nil {
		if errors.Is(err, ErrDivideByZero) {
			return Value{}, &DivideByZeroError{Pos: at}
		}

		return Value{}, err
	}

	if f, ok := v.Float(); ok && !finite(f) && finiteArgs(args) {
		return Value{}, &DomainError{Name: b.Name, Pos: at}
	}

	ev.cfg.logger.TraceContext(ev.ctx, "builtin applied",
		slog.String("name", b.Name),
		slog.Int("args", len(args)),
		slog.Any("result", v),
	)

	return v, nil
}

func finite(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }

func finiteArgs(args []Value) bool {
	for _, arg := range args {
		if f, ok := arg.Float(); ok && !finite(f) {
			return false
		}
	}

	return true
}
