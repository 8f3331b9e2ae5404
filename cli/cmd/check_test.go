package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/eidolon/lang"
)

func TestCheck_Run(t *testing.T) {
	tests := []struct {
		name    string
		check   Check
		want    string
		wantErr error
	}{
		{
			name:  "arithmetic",
			check: Check{Input: Input{Expr: "2 + 2 * 2"}, Tolerance: 1e-9},
			want:  "ok\t6\n",
		},
		{
			name: "builtins_and_globals",
			check: Check{
				Input:     Input{Expr: "let a = $r ^ 2\nsqrt[a + 16]"},
				Globals:   Globals{Global: map[string]string{"r": "3"}},
				Tolerance: 1e-9,
			},
			want: "ok\t5\n",
		},
		{
			name:  "both_fail",
			check: Check{Input: Input{Expr: "1 / 0"}, Tolerance: 1e-9},
			want:  "ok\terror: ",
		},
		{
			name:    "parse_error",
			check:   Check{Input: Input{Expr: "1 +"}},
			wantErr: lang.ErrParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := testContext(t, "")

			err := tt.check.Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got := out.String(); !strings.HasPrefix(got, tt.want) {
				t.Errorf("Run() output = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestCheck_Show(t *testing.T) {
	ctx, out := testContext(t, "")

	c := Check{Input: Input{Expr: "max[1, 2]"}, Tolerance: 1e-9, Show: true}
	if err := c.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got := out.String(); !strings.HasPrefix(got, "reference\t") ||
		!strings.HasSuffix(got, "ok\t2\n") {
		t.Errorf("Run() output = %q", got)
	}
}

func TestCheck_Agree(t *testing.T) {
	c := Check{Tolerance: 1e-6}

	num := func(f float64) outcome { return outcome{value: lang.NumberValue(f)} }
	fail := func(err error) outcome { return outcome{err: err} }

	tests := []struct {
		name string
		a, b outcome
		want bool
	}{
		{"equal", num(1), num(1), true},
		{"within_tolerance", num(1e6), num(1e6 + 0.5), true},
		{"outside_tolerance", num(1), num(1.001), false},
		{"strings", outcome{value: lang.StringValue("a")}, outcome{value: lang.StringValue("a")}, true},
		{"kinds_differ", num(1), outcome{value: lang.StringValue("1")}, false},
		{"one_fails", num(1), fail(lang.ErrDomain), false},
		{"same_category", fail(lang.ErrDomain), fail(lang.ErrDomain), true},
		{"divide_is_domain", fail(&lang.DivideByZeroError{}), fail(lang.ErrDomain), true},
		{"opaque_reference", fail(lang.ErrArityMismatch), fail(lang.ErrReference), true},
		{"different_category", fail(lang.ErrParse), fail(lang.ErrDomain), false},
	}

	for _, tt := range tests {
		if got := c.agree(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: agree() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
