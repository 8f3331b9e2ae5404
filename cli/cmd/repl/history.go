package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// BaseHistory is the file name of the history file in the cache directory.
const BaseHistory = "history.utf8"

// History is the list of submitted input lines, oldest first.
//
// When it has a path, every change is persisted one line per entry. A line
// submitted again moves to the end instead of appearing twice.
type History struct {
	path    string
	entries []string
	mu      sync.RWMutex
}

// NewHistory returns an empty History persisted at path. An empty path keeps
// the history in memory only.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with the contents of the history file. A missing
// file is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.entries = slices.DeleteFunc(h.entries, func(e string) bool { return e == line })
			h.entries = append(h.entries, line)
		}
	}

	return scanner.Err()
}

// Add appends line to the history. Blank lines are ignored.
func (h *History) Add(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return nil
	}

	before := len(h.entries)
	h.entries = slices.DeleteFunc(h.entries, func(e string) bool { return e == line })
	h.entries = append(h.entries, line)

	if h.path == "" {
		return nil
	}

	if len(h.entries) <= before {
		return h.rewrite()
	}

	return h.append(line)
}

// Entry returns the entry at index i, where 0 is the oldest.
func (h *History) Entry(i int) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return "", ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

func (h *History) open(flag int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(h.path), 0o700); err != nil {
		return nil, err
	}

	return os.OpenFile(h.path, flag|os.O_CREATE|os.O_WRONLY, 0o600)
}

// append writes one line to the end of the file. h.mu must be held.
func (h *History) append(line string) error {
	file, err := h.open(os.O_APPEND)
	if err != nil {
		return err
	}

	_, err = file.WriteString(line + "\n")

	return errors.Join(err, file.Close())
}

// rewrite replaces the file with the current entries. h.mu must be held.
func (h *History) rewrite() error {
	file, err := h.open(os.O_TRUNC)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	for _, e := range h.entries {
		if _, err := w.WriteString(e + "\n"); err != nil {
			return errors.Join(err, file.Close())
		}
	}

	return errors.Join(w.Flush(), file.Close())
}
