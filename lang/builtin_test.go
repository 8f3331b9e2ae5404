package lang

import (
	"slices"
	"testing"
)

func TestBuiltins_Sorted(t *testing.T) {
	t.Parallel()

	names := BuiltinNames()
	if !slices.IsSorted(names) {
		t.Errorf("BuiltinNames() not sorted: %v", names)
	}

	var seen []string
	for b := range Builtins() {
		seen = append(seen, b.Name)
	}

	if !slices.Equal(seen, names) {
		t.Errorf("Builtins() order %v differs from BuiltinNames() %v", seen, names)
	}

	for _, name := range []string{"PI", "E", "sqrt", "sin", "atan2", "info", "warn", "error"} {
		if !slices.Contains(names, name) {
			t.Errorf("builtin %q is missing", name)
		}
	}
}

func TestBuiltin_Signature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		want  string
		arity int
		konst bool
	}{
		{"PI", "PI", 0, true},
		{"sqrt", "sqrt[x]", 1, false},
		{"atan2", "atan2[y, x]", 2, false},
		{"info", "info[msg]", 1, false},
	}

	for _, tt := range tests {
		b, ok := LookupBuiltin(tt.name)
		if !ok {
			t.Fatalf("LookupBuiltin(%q) not found", tt.name)
		}

		if got := b.Signature(); got != tt.want {
			t.Errorf("%s.Signature() = %q, want %q", tt.name, got, tt.want)
		}

		if b.Arity() != tt.arity || b.IsConst() != tt.konst {
			t.Errorf("%s: arity %d const %v, want %d %v",
				tt.name, b.Arity(), b.IsConst(), tt.arity, tt.konst)
		}

		if b.Doc == "" {
			t.Errorf("%s has no documentation", tt.name)
		}

		if b.IsLogging() != (tt.name == "info") {
			t.Errorf("%s.IsLogging() = %v", tt.name, b.IsLogging())
		}
	}

	if _, ok := LookupBuiltin("pi"); ok {
		t.Error("builtin lookup is case-insensitive")
	}
}
