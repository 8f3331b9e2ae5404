package lang

import (
	"math"
	"testing"
)

func TestSubstitute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		globals Globals
		want    string
	}{
		{
			name:    "simple",
			source:  "$a^2 + $b^2",
			globals: Globals{"a": 3, "b": 4},
			want:    "3^2 + 4^2",
		},
		{
			name:    "prefix collision",
			source:  "$a + $ab",
			globals: Globals{"a": 1, "ab": 2},
			want:    "1 + 2",
		},
		{
			name:    "prefix of unknown name",
			source:  "$a + $ab",
			globals: Globals{"a": 1},
			want:    "1 + $ab",
		},
		{
			name:    "negative is grouped",
			source:  "$x^2",
			globals: Globals{"x": -3},
			want:    "(-3)^2",
		},
		{
			name:    "value containing sigil is not rescanned",
			source:  "info[$msg] + $n",
			globals: Globals{"msg": "$n", "n": 5},
			want:    `info["$n"] + 5`,
		},
		{
			name:    "string value is escaped",
			source:  "$s",
			globals: Globals{"s": `1" + "2`},
			want:    `"1\" + \"2"`,
		},
		{
			name:    "inside string literal",
			source:  `info["cost $a"] + $a`,
			globals: Globals{"a": 7},
			want:    `info["cost $a"] + 7`,
		},
		{
			name:    "escaped quote inside literal",
			source:  `info["\"$a"] + $a`,
			globals: Globals{"a": 7},
			want:    `info["\"$a"] + 7`,
		},
		{
			name:    "inside comment",
			source:  "$a # uses $a\n$a",
			globals: Globals{"a": 2},
			want:    "2 # uses $a\n2",
		},
		{
			name:    "fractional",
			source:  "$f",
			globals: Globals{"f": 0.1},
			want:    "0.1",
		},
		{
			name:    "numeric text is a number",
			source:  "$n * 2",
			globals: Globals{"n": "-10"},
			want:    "(-10) * 2",
		},
		{
			name:    "non-finite is left in place",
			source:  "$inf + $nan + 1",
			globals: Globals{"inf": math.Inf(1), "nan": math.NaN()},
			want:    "$inf + $nan + 1",
		},
		{
			name:    "no globals",
			source:  "$a",
			globals: nil,
			want:    "$a",
		},
		{
			name:    "trailing sigil",
			source:  "1 + $",
			globals: Globals{"a": 1},
			want:    "1 + $",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Substitute(tt.source, tt.globals); got != tt.want {
				t.Errorf("Substitute(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestSubstitute_AgreesWithDirectEvaluation(t *testing.T) {
	t.Parallel()

	globals := Globals{"a": 3, "b": -4, "ab": 0.5}
	source := "let h = hypot[$a, $b]\nh * $ab + $a ^ 2"

	direct, err := EvaluateString(t.Context(), source, globals)
	if err != nil {
		t.Fatalf("direct evaluation error: %v", err)
	}

	substituted, err := EvaluateString(t.Context(), Substitute(source, globals), nil)
	if err != nil {
		t.Fatalf("substituted evaluation error: %v", err)
	}

	if !direct.Equal(substituted) {
		t.Errorf("direct = %v, substituted = %v", direct, substituted)
	}
}
