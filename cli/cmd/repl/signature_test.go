package repl

import (
	"strings"
	"testing"
)

func TestDetectCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no_call", "radius", 6, "", 0, false},
		{"open_bracket", "atan2[", 6, "atan2", 0, true},
		{"first_arg", "atan2[1", 7, "atan2", 0, true},
		{"second_arg", "atan2[1,", 8, "atan2", 1, true},
		{"second_arg_value", "atan2[1, 2", 10, "atan2", 1, true},
		{"closed", "atan2[1, 2]", 11, "", 0, false},
		{"cursor_inside_closed", "atan2[1, 2]", 9, "atan2", 1, true},
		{"nested_inner", "max[1, sqrt[", 12, "sqrt", 0, true},
		{"nested_outer", "max[sqrt[4], ", 13, "max", 1, true},
		{"paren_inside_call", "min[(1, ", 8, "", 0, false},
		{"paren_closed_inside_call", "min[(1 + 2), ", 13, "min", 1, true},
		{"comma_in_string", `info["a, b`, 10, "", 0, false},
		{"after_string", `info["a, b"`, 11, "info", 0, true},
		{"escaped_quote", `info["a\", `, 11, "", 0, false},
		{"global_is_not_call", "$f[", 3, "", 0, false},
		{"previous_line", "sqrt[\n2", 7, "", 0, false},
		{"operator_before_bracket", "1 + [", 5, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectCall(tt.input, tt.cursor)
			if got.name != tt.wantName || got.argIndex != tt.wantIndex ||
				got.inCall != tt.wantInCall {
				t.Errorf("detectCall(%q, %d) = %+v, want {name:%s argIndex:%d inCall:%v}",
					tt.input, tt.cursor, got, tt.wantName, tt.wantIndex, tt.wantInCall)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	tests := []struct {
		name     string
		function string
		argIndex int
		want     []string
	}{
		{"binary_first", "atan2", 0, []string{"atan2", "y", "x"}},
		{"binary_second", "atan2", 1, []string{"atan2", "y", "x"}},
		{"unary", "sqrt", 0, []string{"sqrt", "square root"}},
		{"logging", "warn", 0, []string{"warn", "msg"}},
		{"past_last", "sqrt", 3, []string{"sqrt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSignatureHint(tt.function, tt.argIndex)
			for _, s := range tt.want {
				if !strings.Contains(got, s) {
					t.Errorf("renderSignatureHint(%q, %d) = %q, missing %q",
						tt.function, tt.argIndex, got, s)
				}
			}
		})
	}

	for _, name := range []string{"PI", "nosuch", ""} {
		if got := renderSignatureHint(name, 0); got != "" {
			t.Errorf("renderSignatureHint(%q) = %q, want empty", name, got)
		}
	}
}
