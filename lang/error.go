package lang

import (
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every typed error returned by this package matches exactly one of these
// via [errors.Is].
var (
	ErrLex              = NewError("lex error")
	ErrParse            = NewError("parse error")
	ErrUnboundVariable  = NewError("unbound variable")
	ErrUnknownFunction  = NewError("unknown function")
	ErrArityMismatch    = NewError("arity mismatch")
	ErrTypeMismatch     = NewError("type mismatch")
	ErrDivideByZero     = NewError("divide by zero")
	ErrDomain           = NewError("result out of domain")
	ErrMaxDepthExceeded = NewError("maximum depth exceeded")
	ErrEmptyProgram     = NewError("empty program")
	ErrReadInput        = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err itself if it is an *Error, or else an Error with no
// message wrapping err. Typed errors deeper in the chain are preserved.
func WrapError(err error) *Error {
	if ee, ok := err.(*Error); ok { //nolint:errorlint
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
// Errors created by [Error.Wrap] and [Error.With] share their origin's
// message, so they match the original sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && len(t.attrs) == 0 && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// LexError reports malformed source text found by [Tokenize].
type LexError struct {
	Source string // The original source input, if known
	Msg    string
	Pos    Position
}

func (e *LexError) Error() string {
	return ErrLex.msg + " at " + e.Pos.String() + ": " + e.Msg
}

// Is matches [ErrLex].
func (e *LexError) Is(target error) bool { return target == ErrLex }

// Snippet renders the offending source line with a caret under the error
// column. It returns the empty string when the source is unknown.
func (e *LexError) Snippet() string { return snippet(e.Source, e.Pos) }

// LogValue implements slog.LogValuer.
func (e *LexError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrLex.msg),
		slog.String("message", e.Msg),
		slog.Any("position", e.Pos),
	)
}

// ParseError reports a syntactically invalid token sequence.
type ParseError struct {
	err    error
	Source string // The original source input, if known
	Msg    string
	Pos    Position
}

func (e *ParseError) Error() string {
	return ErrParse.msg + " at " + e.Pos.String() + ": " + e.Msg
}

// Is matches [ErrParse].
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Unwrap returns the underlying cause, such as [ErrMaxDepthExceeded].
func (e *ParseError) Unwrap() error { return e.err }

// Snippet renders the offending source line with a caret under the error
// column. It returns the empty string when the source is unknown.
func (e *ParseError) Snippet() string { return snippet(e.Source, e.Pos) }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrParse.msg),
		slog.String("message", e.Msg),
		slog.Any("position", e.Pos),
	)
}

// UnboundVariableError reports a name with no binding. Global is set when
// the reference used the '$' sigil.
type UnboundVariableError struct {
	Name   string
	Pos    Position
	Global bool
}

func (e *UnboundVariableError) Error() string {
	return ErrUnboundVariable.msg + " " + strconv.Quote(e.display())
}

func (e *UnboundVariableError) display() string {
	if e.Global {
		return "$" + e.Name
	}

	return e.Name
}

// Is matches [ErrUnboundVariable].
func (e *UnboundVariableError) Is(target error) bool {
	return target == ErrUnboundVariable
}

// LogValue implements slog.LogValuer.
func (e *UnboundVariableError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUnboundVariable.msg),
		slog.String("name", e.display()),
		slog.Any("position", e.Pos),
	)
}

// UnknownFunctionError reports a call to a name absent from the builtin
// registry.
type UnknownFunctionError struct {
	Name string
	Pos  Position
}

func (e *UnknownFunctionError) Error() string {
	return ErrUnknownFunction.msg + " " + strconv.Quote(e.Name)
}

// Is matches [ErrUnknownFunction].
func (e *UnknownFunctionError) Is(target error) bool {
	return target == ErrUnknownFunction
}

// LogValue implements slog.LogValuer.
func (e *UnknownFunctionError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUnknownFunction.msg),
		slog.String("name", e.Name),
		slog.Any("position", e.Pos),
	)
}

// ArityMismatchError reports a builtin called with the wrong number of
// arguments.
type ArityMismatchError struct {
	Name     string
	Expected int
	Got      int
	Pos      Position
}

func (e *ArityMismatchError) Error() string {
	noun := "arguments"
	if e.Expected == 1 {
		noun = "argument"
	}

	return ErrArityMismatch.msg + ": " + e.Name + " expects " +
		strconv.Itoa(e.Expected) + " " + noun + ", got " + strconv.Itoa(e.Got)
}

// Is matches [ErrArityMismatch].
func (e *ArityMismatchError) Is(target error) bool {
	return target == ErrArityMismatch
}

// LogValue implements slog.LogValuer.
func (e *ArityMismatchError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrArityMismatch.msg),
		slog.String("name", e.Name),
		slog.Int("expected", e.Expected),
		slog.Int("got", e.Got),
		slog.Any("position", e.Pos),
	)
}

// TypeMismatchError reports an operand or argument of the wrong kind. Name
// is the operator or function that rejected it.
type TypeMismatchError struct {
	Name string
	Want ValueKind
	Got  ValueKind
	Pos  Position
}

func (e *TypeMismatchError) Error() string {
	return ErrTypeMismatch.msg + ": " + e.Name + " expects " +
		e.Want.String() + ", got " + e.Got.String()
}

// Is matches [ErrTypeMismatch].
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// LogValue implements slog.LogValuer.
func (e *TypeMismatchError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrTypeMismatch.msg),
		slog.String("name", e.Name),
		slog.String("want", e.Want.String()),
		slog.String("got", e.Got.String()),
		slog.Any("position", e.Pos),
	)
}

// DivideByZeroError reports a division whose divisor evaluated to zero.
type DivideByZeroError struct {
	Pos Position
}

func (e *DivideByZeroError) Error() string {
	return ErrDivideByZero.msg + " at " + e.Pos.String()
}

// Is matches [ErrDivideByZero].
func (e *DivideByZeroError) Is(target error) bool {
	return target == ErrDivideByZero
}

// LogValue implements slog.LogValuer.
func (e *DivideByZeroError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrDivideByZero.msg),
		slog.Any("position", e.Pos),
	)
}

// DomainError reports a non-finite result computed from finite operands,
// such as sqrt[-1] or an overflowing power.
type DomainError struct {
	Name string
	Pos  Position
}

func (e *DomainError) Error() string {
	return ErrDomain.msg + ": " + e.Name + " at " + e.Pos.String()
}

// Is matches [ErrDomain].
func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// LogValue implements slog.LogValuer.
func (e *DomainError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrDomain.msg),
		slog.String("name", e.Name),
		slog.Any("position", e.Pos),
	)
}

// snippet formats the source line at pos followed by a caret marker:
//
//	  2 | let x = 1 +
//	                 ^
func snippet(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	line := strings.TrimSuffix(lines[pos.Line-1], "\r")
	num := strconv.Itoa(pos.Line)

	var sb strings.Builder

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(line)
	sb.WriteByte('\n')

	// 2 leading spaces + " | " (3 chars)
	sb.WriteString(strings.Repeat(" ", len(num)+5))

	if pos.Column > 1 {
		sb.WriteString(strings.Repeat(" ", pos.Column-1))
	}

	sb.WriteString("^\n")

	return sb.String()
}
