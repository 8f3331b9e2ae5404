package lang

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestFormatJSON(t *testing.T) {
	t.Parallel()

	prog := mustParse(t, "let x = -sqrt[$r]\n\"s\"")

	var sb strings.Builder
	if err := FormatJSON(&sb, prog, 0); err != nil {
		t.Fatalf("FormatJSON error: %v", err)
	}

	if strings.Count(strings.TrimSpace(sb.String()), "\n") != 0 {
		t.Errorf("compact output spans lines:\n%s", sb.String())
	}

	var got map[string]any
	if err := json.Unmarshal([]byte(sb.String()), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	stmts, ok := got["statements"].([]any)
	if got["node"] != "program" || !ok || len(stmts) != 2 {
		t.Fatalf("unexpected program: %v", got)
	}

	let := stmts[0].(map[string]any)
	if let["node"] != "let" || let["name"] != "x" || let["pos"] != "1:1" {
		t.Errorf("unexpected let: %v", let)
	}

	unary := let["value"].(map[string]any)
	call := unary["operand"].(map[string]any)
	args := call["args"].([]any)

	if call["name"] != "sqrt" || args[0].(map[string]any)["node"] != "global" {
		t.Errorf("unexpected call: %v", call)
	}

	if s := stmts[1].(map[string]any); s["value"] != "s" {
		t.Errorf("unexpected string literal: %v", s)
	}
}

func TestFormatJSON_Indent(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	if err := FormatJSON(&sb, mustParse(t, "1 + 2"), 4); err != nil {
		t.Fatalf("FormatJSON error: %v", err)
	}

	if !strings.Contains(sb.String(), "\n    \"node\": \"program\"") {
		t.Errorf("indented output missing 4-space keys:\n%s", sb.String())
	}
}

func TestFormatYAML(t *testing.T) {
	t.Parallel()

	prog := mustParse(t, "max[1, 2.5]")

	for _, indent := range []int{0, 2} {
		var sb strings.Builder
		if err := FormatYAML(t.Context(), &sb, prog, indent); err != nil {
			t.Fatalf("FormatYAML(indent=%d) error: %v", indent, err)
		}

		var got map[string]any
		if err := yaml.Unmarshal([]byte(sb.String()), &got); err != nil {
			t.Fatalf("output is not YAML: %v\n%s", err, sb.String())
		}

		stmts := got["statements"].([]any)
		call := stmts[0].(map[string]any)

		if call["node"] != "call" || call["name"] != "max" {
			t.Errorf("indent=%d: unexpected call %v", indent, call)
		}

		if indent == 0 && !strings.HasPrefix(sb.String(), "{") {
			t.Errorf("indent=0 should use flow style:\n%s", sb.String())
		}
	}
}

func TestFormatTokens(t *testing.T) {
	t.Parallel()

	tokens, err := Tokenize("let x = $y")
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}

	var sb strings.Builder
	if err := FormatTokens(&sb, tokens); err != nil {
		t.Fatalf("FormatTokens error: %v", err)
	}

	want := `1:1      keyword "let"
1:5      identifier "x"
1:7      '=' "="
1:9      global reference $y
1:11     end of input
`

	if got := sb.String(); got != want {
		t.Errorf("FormatTokens() =\n%s\nwant\n%s", got, want)
	}
}
