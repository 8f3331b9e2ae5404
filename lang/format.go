package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// ToNative converts n into nested maps and slices suitable for generic
// encoders. Every node becomes a map with a "node" key naming its variant.
func ToNative(n Node) map[string]any {
	m := map[string]any{"pos": n.Pos().String()}

	switch n := n.(type) {
	case *Program:
		stmts := make([]any, len(n.Statements))
		for i, stmt := range n.Statements {
			stmts[i] = ToNative(stmt)
		}

		m["node"] = "program"
		m["statements"] = stmts

	case *LetBinding:
		m["node"] = "let"
		m["name"] = n.Name
		m["value"] = ToNative(n.Value)

	case *BinaryOp:
		m["node"] = "binary"
		m["op"] = n.Op
		m["left"] = ToNative(n.Left)
		m["right"] = ToNative(n.Right)

	case *UnaryOp:
		m["node"] = "unary"
		m["op"] = n.Op
		m["operand"] = ToNative(n.Operand)

	case *Call:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = ToNative(arg)
		}

		m["node"] = "call"
		m["name"] = n.Name
		m["args"] = args

	case *Identifier:
		m["node"] = "identifier"
		m["name"] = n.Name

	case *GlobalRef:
		m["node"] = "global"
		m["name"] = n.Name

	case *NumberLiteral:
		m["node"] = "number"
		m["value"] = n.Value

	case *StringLiteral:
		m["node"] = "string"
		m["value"] = n.Value
	}

	return m
}

// FormatJSON writes n as JSON to w. A positive indent enables multi-line
// output with that many spaces per level.
func FormatJSON(w io.Writer, n Node, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(ToNative(n), "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(ToNative(n))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes n as YAML to w. A positive indent sets block indentation;
// otherwise flow style is used.
func FormatYAML(ctx context.Context, w io.Writer, n Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, ToNative(n), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// FormatTokens writes one token per line to w.
func FormatTokens(w io.Writer, tokens []Token) error {
	for _, t := range tokens {
		if _, err := fmt.Fprintf(w, "%-8s %s\n", t.Pos, t); err != nil {
			return err
		}
	}

	return nil
}
