package lang

import (
	"errors"
	"testing"
)

func FuzzTokenize(f *testing.F) {
	for _, seed := range []string{
		"2+2*2",
		"let x = $y\nx",
		`info["a\"b"]`,
		"1e+",
		"$",
		"# comment only",
		".5e-3",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		tokens, err := Tokenize(input)
		if err != nil {
			if !errors.Is(err, ErrLex) {
				t.Fatalf("Tokenize(%q) returned untyped error %v", input, err)
			}

			return
		}

		if n := len(tokens); n == 0 || tokens[n-1].Kind != KindEOF {
			t.Fatalf("Tokenize(%q) did not end with EOF: %v", input, tokens)
		}
	})
}

func FuzzEvaluate(f *testing.F) {
	for _, seed := range []string{
		"2+2*2",
		"sqrt[9] + sin[PI]",
		"let a = $a\na ^ 2 / (a - 3)",
		"-(-(1))",
		"max[1,]",
		"((((((1",
		`warn["x"] + 1`,
	} {
		f.Add(seed)
	}

	sentinels := []error{
		ErrLex, ErrParse, ErrUnboundVariable, ErrUnknownFunction,
		ErrArityMismatch, ErrTypeMismatch, ErrDivideByZero, ErrDomain,
	}

	f.Fuzz(func(t *testing.T, input string) {
		prog, err := ParseString(t.Context(), input, WithMaxDepth(64))
		if err != nil {
			if !errors.Is(err, ErrLex) && !errors.Is(err, ErrParse) {
				t.Fatalf("ParseString(%q) returned untyped error %v", input, err)
			}

			return
		}

		_, err = Evaluate(t.Context(), prog, NewEnvironment(Globals{"a": 3}), WithMaxDepth(64))
		if err == nil {
			return
		}

		if errors.Is(err, ErrMaxDepthExceeded) {
			t.Fatalf("Evaluate(%q) exceeded a depth the parser accepted: %v", input, err)
		}

		for _, sentinel := range sentinels {
			if errors.Is(err, sentinel) {
				return
			}
		}

		t.Fatalf("Evaluate(%q) returned untyped error %v", input, err)
	})
}
