package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/eidolon/lang"
)

func TestFmt_Canonical(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"((1 + 2)) * 3", "(1 + 2) * 3\n"},
		{"2 ^ 3 ^ 2", "2 ^ 3 ^ 2\n"},
		{"(2 ^ 3) ^ 2", "(2 ^ 3) ^ 2\n"},
		{"let  x=1\nx", "let x = 1\nx\n"},
	}

	for _, tt := range tests {
		ctx, out := testContext(t, "")

		f := Canonical{Input: Input{Expr: tt.source}}
		if err := f.Run(ctx); err != nil {
			t.Fatalf("Run(%q): %v", tt.source, err)
		}

		if got := out.String(); got != tt.want {
			t.Errorf("Run(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestFmt_Tokens(t *testing.T) {
	ctx, out := testContext(t, "")

	if err := (&Tokens{Input: Input{Expr: "sqrt[x]"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	// sqrt [ x ] and end of input.
	if lines := strings.Split(strings.TrimSpace(out.String()), "\n"); len(lines) < 4 {
		t.Errorf("tokens output:\n%s", out)
	}

	ctx, _ = testContext(t, "")

	err := (&Tokens{Input: Input{Expr: "1 @ 2"}}).Run(ctx)
	if !errors.Is(err, lang.ErrLex) {
		t.Errorf("Run(1 @ 2) error = %v, want ErrLex", err)
	}
}

func TestFmt_JSON(t *testing.T) {
	ctx, out := testContext(t, "")

	if err := (&JSON{Input: Input{Expr: "1 + 2"}, Indent: 0}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var tree map[string]any
	if err := json.Unmarshal(out.Bytes(), &tree); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	if tree["node"] != "program" {
		t.Errorf("root node = %v, want program", tree["node"])
	}
}

func TestFmt_YAMLAndAST(t *testing.T) {
	in := Input{Expr: "let a = -PI\na"}

	ctx, out := testContext(t, "")
	if err := (&YAML{Input: in, Indent: 2}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "program") {
		t.Errorf("yaml output:\n%s", out)
	}

	ctx, out = testContext(t, "")
	if err := (&AST{Input: in}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "PI") {
		t.Errorf("ast output:\n%s", out)
	}

	ctx, _ = testContext(t, "")

	err := (&AST{Input: Input{Expr: "1 +"}}).Run(ctx)
	if !errors.Is(err, lang.ErrParse) {
		t.Errorf("Run(1 +) error = %v, want ErrParse", err)
	}
}
