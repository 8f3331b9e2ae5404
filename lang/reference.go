package lang

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// ErrReference wraps failures reported by the reference evaluator.
var ErrReference = NewError("reference evaluation failed")

// Reference evaluates prog with expr-lang instead of this package's
// evaluator. It is an independent oracle for cross-checking arithmetic: the
// program is translated to a fully parenthesized expr-lang expression in
// which every let binding gets a fresh name and every builtin is supplied as
// a Go function.
//
// Binding errors are reported with the same typed errors as [Evaluate]. A
// non-finite result is reported as [ErrDomain].
func Reference(prog *Program, globals Globals) (Value, error) {
	source, err := Translate(prog, globals)
	if err != nil {
		return Value{}, err
	}

	env := make(map[string]any, len(globals))
	for name, v := range globals {
		env[globalName(name)] = ValueOf(v).Native()
	}

	opts := []expr.Option{expr.Env(env)}

	for b := range Builtins() {
		if b.IsConst() {
			continue
		}

		opts = append(opts, expr.Function(funcName(b.Name), referenceFunc(b)))
	}

	program, err := expr.Compile(source, opts...)
	if err != nil {
		return Value{}, ErrReference.Wrap(err).With(slog.String("source", source))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return Value{}, ErrReference.Wrap(err).With(slog.String("source", source))
	}

	var v Value

	switch x := out.(type) {
	case float64:
		v = NumberValue(x)
	case int:
		v = NumberValue(float64(x))
	case string:
		v = StringValue(x)
	default:
		return Value{}, ErrReference.With(
			slog.String("source", source),
			slog.String("type", fmt.Sprintf("%T", out)),
		)
	}

	if f, ok := v.Float(); ok && !finite(f) {
		return Value{}, ErrDomain.With(slog.String("source", source))
	}

	return v, nil
}

// Translate renders prog as the expr-lang source evaluated by [Reference].
func Translate(prog *Program, globals Globals) (string, error) {
	if prog == nil || len(prog.Statements) == 0 {
		return "", ErrEmptyProgram
	}

	tr := translator{globals: globals, locals: map[string]string{}}

	var sb strings.Builder

	last := len(prog.Statements) - 1

	for i, stmt := range prog.Statements {
		let, isLet := stmt.(*LetBinding)

		body := stmt
		if isLet {
			body = let.Value
		}

		text, err := tr.expr(body)
		if err != nil {
			return "", err
		}

		name := "t_" + strconv.Itoa(i)
		if isLet {
			name = "v_" + let.Name + "_" + strconv.Itoa(i)
		}

		switch {
		case i < last:
			sb.WriteString("let " + name + " = " + text + "; ")
		case isLet:
			sb.WriteString("let " + name + " = " + text + "; " + name)
		default:
			sb.WriteString(text)
		}

		if isLet {
			tr.locals[let.Name] = name
		}
	}

	return sb.String(), nil
}

type translator struct {
	globals Globals
	locals  map[string]string
}

func (tr translator) expr(n Node) (string, error) {
	switch n := n.(type) {
	case *NumberLiteral:
		return floatLiteral(n.Value), nil

	case *StringLiteral:
		return strconv.Quote(n.Value), nil

	case *GlobalRef:
		v, ok := tr.globals[n.Name]
		if !ok {
			return "", &UnboundVariableError{Name: n.Name, Global: true, Pos: n.Start}
		}

		if !ValueOf(v).finite() {
			return "", &DomainError{Name: "$" + n.Name, Pos: n.Start}
		}

		return globalName(n.Name), nil

	case *Identifier:
		if b, ok := LookupBuiltin(n.Name); ok {
			if v, ok := b.Value(); ok {
				f, _ := v.Float()

				return floatLiteral(f), nil
			}

			return "", &ArityMismatchError{
				Name: b.Name, Expected: b.Arity(), Got: 0, Pos: n.Start,
			}
		}

		if name, ok := tr.locals[n.Name]; ok {
			return name, nil
		}

		return "", &UnboundVariableError{Name: n.Name, Pos: n.Start}

	case *UnaryOp:
		operand, err := tr.expr(n.Operand)
		if err != nil {
			return "", err
		}

		return "(" + n.Op + operand + ")", nil

	case *BinaryOp:
		left, err := tr.expr(n.Left)
		if err != nil {
			return "", err
		}

		right, err := tr.expr(n.Right)
		if err != nil {
			return "", err
		}

		op := n.Op
		if op == "^" {
			op = "**"
		}

		return "(" + left + " " + op + " " + right + ")", nil

	case *Call:
		b, ok := LookupBuiltin(n.Name)
		if !ok {
			return "", &UnknownFunctionError{Name: n.Name, Pos: n.Start}
		}

		if len(n.Args) != b.Arity() {
			return "", &ArityMismatchError{
				Name: n.Name, Expected: b.Arity(), Got: len(n.Args), Pos: n.Start,
			}
		}

		if v, ok := b.Value(); ok {
			f, _ := v.Float()

			return floatLiteral(f), nil
		}

		args := make([]string, len(n.Args))

		for i, arg := range n.Args {
			text, err := tr.expr(arg)
			if err != nil {
				return "", err
			}

			args[i] = text
		}

		return funcName(n.Name) + "(" + strings.Join(args, ", ") + ")", nil

	default:
		return "", fmt.Errorf("unsupported node %T", n)
	}
}

// referenceFunc adapts a builtin to an expr-lang function. Logging builtins
// become the identity.
func referenceFunc(b Builtin) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		args := make([]Value, len(params))
		for i, p := range params {
			if s, ok := p.(string); ok {
				args[i] = StringValue(s)
			} else {
				args[i] = ValueOf(p)
			}
		}

		if b.numeric() {
			for _, arg := range args {
				if arg.Kind() != ValueNumber {
					return nil, &TypeMismatchError{
						Name: b.Name, Want: ValueNumber, Got: arg.Kind(),
					}
				}
			}
		}

		v, err := b.invoke(args, nil)
		if err != nil {
			return nil, err
		}

		return v.Native(), nil
	}
}

func floatLiteral(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}

	return s
}

func globalName(name string) string { return "g_" + name }

func funcName(name string) string { return "f_" + name }
