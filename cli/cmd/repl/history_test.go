package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", BaseHistory)

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() on missing file: %v", err)
	}

	for _, line := range []string{"let x = 2", "x * 3", "  ", "x * 3", ":env"} {
		if err := h.Add(line); err != nil {
			t.Fatalf("Add(%q): %v", line, err)
		}
	}

	want := []string{"let x = 2", "x * 3", ":env"}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Fatalf("Entries() = %q, want %q", got, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if got := reloaded.Entries(); !slices.Equal(got, want) {
		t.Errorf("reloaded Entries() = %q, want %q", got, want)
	}
}

func TestHistory_MoveDuplicateToEnd(t *testing.T) {
	path := filepath.Join(t.TempDir(), BaseHistory)

	h := NewHistory(path)
	for _, line := range []string{"a", "b", "c", "a"} {
		if err := h.Add(line); err != nil {
			t.Fatalf("Add(%q): %v", line, err)
		}
	}

	want := []string{"b", "c", "a"}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Fatalf("Entries() = %q, want %q", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if got := string(data); got != "b\nc\na\n" {
		t.Errorf("history file = %q, want %q", got, "b\nc\na\n")
	}
}

func TestHistory_LoadDedupes(t *testing.T) {
	path := filepath.Join(t.TempDir(), BaseHistory)
	if err := os.WriteFile(path, []byte("a\n\nb\na\n  c  \n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []string{"b", "a", "c"}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %q, want %q", got, want)
	}
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("first")
	_ = h.Add("second")

	if got, err := h.Entry(1); err != nil || got != "second" {
		t.Errorf("Entry(1) = (%q, %v), want (second, nil)", got, err)
	}

	for _, i := range []int{-1, 2} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want ErrOutOfBounds", i, err)
		}
	}

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}
