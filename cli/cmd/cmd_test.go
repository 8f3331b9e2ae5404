package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testContext returns a context whose commands read stdin from stdin and
// write to the returned buffer.
func testContext(t *testing.T, stdin string) (context.Context, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	ctx := WithOutput(t.Context(), &out)
	ctx = WithInput(ctx, strings.NewReader(stdin))

	return ctx, &out
}

func writeFile(t *testing.T, path, text string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestInput_Read(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.eid"), "let x = 2")
	b := writeFile(t, filepath.Join(dir, "b.eid"), "x * 3\n")

	link := filepath.Join(dir, "link.eid")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		in      Input
		stdin   string
		want    string
		wantErr error
	}{
		{
			name: "expr",
			in:   Input{Expr: "1 + 2"},
			want: "1 + 2",
		},
		{
			name: "files_in_order",
			in:   Input{Sources: []string{a, b}},
			want: "let x = 2\nx * 3\n",
		},
		{
			name: "same_file_once",
			in:   Input{Sources: []string{a, link, a, b}},
			want: "let x = 2\nx * 3\n",
		},
		{
			name:  "stdin_once",
			in:    Input{Sources: []string{"-", a, "-"}},
			stdin: "let y = 1",
			want:  "let y = 1\nlet x = 2",
		},
		{
			name:  "stdin_default",
			stdin: "PI",
			want:  "PI",
		},
		{
			name:    "conflicting",
			in:      Input{Expr: "1", Sources: []string{a}},
			wantErr: ErrConflictingInput,
		},
		{
			name:    "missing_file",
			in:      Input{Sources: []string{filepath.Join(dir, "nope")}},
			wantErr: ErrReadSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := testContext(t, tt.stdin)

			_, got, err := tt.in.read(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("read() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("read() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("read() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInput_Resource(t *testing.T) {
	include := t.TempDir()
	path := t.TempDir()

	writeFile(t, filepath.Join(include, "area.eid"), "PI * $r ^ 2")
	writeFile(t, filepath.Join(path, "area.eid"), "shadowed")
	writeFile(t, filepath.Join(path, "tau"), "TAU")

	t.Setenv(PathEnv, path+string(os.PathListSeparator)+filepath.Join(path, "missing"))

	tests := []struct {
		name     string
		resource string
		want     string
		wantErr  error
	}{
		{"include_first", "area", "PI * $r ^ 2", nil},
		{"exact_name", "area.eid", "PI * $r ^ 2", nil},
		{"from_path_env", "tau", "TAU", nil},
		{"not_found", "volume", "", ErrResourceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := testContext(t, "")

			in := Input{Resource: tt.resource, Include: []string{include}}

			_, got, err := in.read(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("read() error = %v, want %v", err, tt.wantErr)
			}

			if got != tt.want {
				t.Errorf("read() = %q, want %q", got, tt.want)
			}
		})
	}
}
