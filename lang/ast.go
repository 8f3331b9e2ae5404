package lang

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Node is an element of the abstract syntax tree produced by [Parse].
// Nodes are immutable once parsed and safe to share between goroutines.
type Node interface {
	// Pos returns the position of the node's first token, or of the
	// operator for a [BinaryOp].
	Pos() Position
	// String returns the node rendered as canonical source text.
	String() string

	node()
}

type (
	// NumberLiteral is a numeric constant.
	NumberLiteral struct {
		Text  string // Source spelling
		Value float64
		Start Position
	}

	// StringLiteral is a double-quoted string constant.
	StringLiteral struct {
		Value string
		Start Position
	}

	// Identifier refers to a builtin constant or a let binding.
	Identifier struct {
		Name  string
		Start Position
	}

	// GlobalRef refers to a host-supplied global by name ($name).
	GlobalRef struct {
		Name  string
		Start Position
	}

	// BinaryOp is an infix arithmetic operation.
	BinaryOp struct {
		Left  Node
		Right Node
		Op    string
		Start Position
	}

	// UnaryOp is a prefix operation. The only prefix operator is '-'.
	UnaryOp struct {
		Operand Node
		Op      string
		Start   Position
	}

	// Call invokes a builtin with bracketed arguments: name[a, b].
	Call struct {
		Name  string
		Args  []Node
		Start Position
	}

	// LetBinding binds the value of an expression to a name.
	LetBinding struct {
		Value Node
		Name  string
		Start Position
	}

	// Program is an ordered sequence of newline-separated statements.
	Program struct {
		Statements []Node
	}
)

func (*NumberLiteral) node() {}
func (*StringLiteral) node() {}
func (*Identifier) node()    {}
func (*GlobalRef) node()     {}
func (*BinaryOp) node()      {}
func (*UnaryOp) node()       {}
func (*Call) node()          {}
func (*LetBinding) node()    {}
func (*Program) node()       {}

func (n *NumberLiteral) Pos() Position { return n.Start }
func (n *StringLiteral) Pos() Position { return n.Start }
func (n *Identifier) Pos() Position    { return n.Start }
func (n *GlobalRef) Pos() Position     { return n.Start }
func (n *BinaryOp) Pos() Position      { return n.Start }
func (n *UnaryOp) Pos() Position       { return n.Start }
func (n *Call) Pos() Position          { return n.Start }
func (n *LetBinding) Pos() Position    { return n.Start }

// Pos returns the position of the first statement, or the zero Position
// for an empty program.
func (n *Program) Pos() Position {
	if len(n.Statements) == 0 {
		return Position{}
	}

	return n.Statements[0].Pos()
}

func (n *NumberLiteral) String() string {
	if n.Text != "" {
		return n.Text
	}

	return formatNumber(n.Value)
}

func (n *StringLiteral) String() string { return quoteString(n.Value) }
func (n *Identifier) String() string    { return n.Name }
func (n *GlobalRef) String() string     { return "$" + n.Name }

func (n *BinaryOp) String() string {
	p := precedence(n)

	left := n.Left.String()
	if lp := precedence(n.Left); lp < p || (lp == p && rightAssoc(n)) {
		left = "(" + left + ")"
	}

	right := n.Right.String()
	if rp := precedence(n.Right); rp < p || (rp == p && !rightAssoc(n)) {
		right = "(" + right + ")"
	}

	return left + " " + n.Op + " " + right
}

func (n *UnaryOp) String() string {
	operand := n.Operand.String()
	if precedence(n.Operand) < precUnary {
		operand = "(" + operand + ")"
	}

	return n.Op + operand
}

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.String()
	}

	return n.Name + "[" + strings.Join(args, ", ") + "]"
}

func (n *LetBinding) String() string {
	return keywordLet + " " + n.Name + " = " + n.Value.String()
}

func (n *Program) String() string {
	lines := make([]string, len(n.Statements))
	for i, stmt := range n.Statements {
		lines[i] = stmt.String()
	}

	return strings.Join(lines, "\n")
}

// Binding strength of each syntactic level, loosest first.
const (
	precLet = iota
	precAdditive
	precMultiplicative
	precPower
	precUnary
	precPrimary
)

func precedence(n Node) int {
	switch n := n.(type) {
	case *LetBinding, *Program:
		return precLet

	case *BinaryOp:
		switch n.Op {
		case "+", "-":
			return precAdditive
		case "*", "/":
			return precMultiplicative
		default:
			return precPower
		}

	case *UnaryOp:
		return precUnary

	default:
		return precPrimary
	}
}

func rightAssoc(n *BinaryOp) bool { return n.Op == "^" }

// Children returns an iterator over the direct children of n.
func Children(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		switch n := n.(type) {
		case *Program:
			for _, stmt := range n.Statements {
				if !yield(stmt) {
					return
				}
			}

		case *LetBinding:
			yield(n.Value)

		case *BinaryOp:
			if yield(n.Left) {
				yield(n.Right)
			}

		case *UnaryOp:
			yield(n.Operand)

		case *Call:
			for _, arg := range n.Args {
				if !yield(arg) {
					return
				}
			}
		}
	}
}

// Walk returns an iterator over n and all of its descendants in depth-first
// pre-order.
func Walk(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		walk(n, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}

	for child := range Children(n) {
		if !walk(child, yield) {
			return false
		}
	}

	return true
}

// Depth returns the height of the tree rooted at n. A leaf has depth 1.
func Depth(n Node) int {
	deepest := 0

	for child := range Children(n) {
		deepest = max(deepest, Depth(child))
	}

	return deepest + 1
}

// Print writes an indented, one-node-per-line representation of n to w.
func Print(w io.Writer, n Node) error {
	return printNode(w, n, 0)
}

func printNode(w io.Writer, n Node, indent int) error {
	prefix := strings.Repeat("  ", indent)

	var label string

	switch n := n.(type) {
	case *Program:
		label = fmt.Sprintf("Program (%d statements)", len(n.Statements))
	case *LetBinding:
		label = "Let " + n.Name
	case *BinaryOp:
		label = "Binary " + n.Op
	case *UnaryOp:
		label = "Unary " + n.Op
	case *Call:
		label = fmt.Sprintf("Call %s/%d", n.Name, len(n.Args))
	case *Identifier:
		label = "Identifier " + n.Name
	case *GlobalRef:
		label = "Global $" + n.Name
	case *NumberLiteral:
		label = "Number " + n.String()
	case *StringLiteral:
		label = "String " + n.String()
	}

	if _, err := fmt.Fprintf(w, "%s%s @%s\n", prefix, label, n.Pos()); err != nil {
		return err
	}

	for child := range Children(n) {
		if err := printNode(w, child, indent+1); err != nil {
			return err
		}
	}

	return nil
}
