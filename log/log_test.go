package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any

	for line := range strings.Lines(buf.String()) {
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}

		out = append(out, m)
	}

	return out
}

func TestMake_Defaults(t *testing.T) {
	t.Parallel()

	logger := Make(nil)

	if logger.Level() != DefaultLevel {
		t.Errorf("Level() = %v, want %v", logger.Level(), DefaultLevel)
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("Format() = %v, want %v", logger.Format(), DefaultFormat)
	}

	if logger.caller || logger.pretty {
		t.Error("caller and pretty output should be disabled by default")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelWarn))

	logger.Trace("trace")
	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d records, want 2: %s", len(lines), buf.String())
	}

	if lines[0]["level"] != "WARN" || lines[1]["level"] != "ERROR" {
		t.Errorf("levels = %v, %v; want WARN, ERROR", lines[0]["level"], lines[1]["level"])
	}
}

func TestLogger_TraceLevelName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelTrace))
	logger.TraceContext(t.Context(), "deep", slog.Int("depth", 3))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["level"] != "TRACE" || lines[0]["depth"] != float64(3) {
		t.Errorf("unexpected record: %v", lines)
	}
}

func TestLogger_WithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	base := Make(&buf, WithFormat(FormatJSON))
	child := base.With(slog.String("component", "engine"))

	child.Info("hello")
	base.Info("plain")

	lines := decodeLines(t, &buf)
	if lines[0]["component"] != "engine" {
		t.Errorf("child record missing attribute: %v", lines[0])
	}

	if _, ok := lines[1]["component"]; ok {
		t.Errorf("attribute leaked into parent: %v", lines[1])
	}
}

func TestLogger_Wrap(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	base := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelError))
	loud := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError || loud.Level() != LevelDebug {
		t.Errorf("levels = %v, %v; want error, debug", base.Level(), loud.Level())
	}

	loud.Debug("visible")
	base.Debug("hidden")

	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("got %d records, want 1: %s", got, buf.String())
	}
}

func TestLogger_ZeroValue(t *testing.T) {
	t.Parallel()

	var logger Logger

	// None of these may panic.
	logger.Info("ignored")
	logger.TraceContext(t.Context(), "ignored")
	logger = logger.With(slog.String("k", "v")).WithGroup("g")

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero Logger reports enabled")
	}
}

func TestLogger_Caller(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithCaller(true)).Info("where")

	lines := decodeLines(t, &buf)

	source, ok := lines[0]["source"].(map[string]any)
	if !ok {
		t.Fatalf("record has no source: %v", lines[0])
	}

	if file, _ := source["file"].(string); !strings.HasSuffix(file, "log_test.go") {
		t.Errorf("source file = %v, want log_test.go", source["file"])
	}
}

func TestLogger_TimeLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		layout string
		check  func(string) bool
	}{
		{"none", func(s string) bool { return s == "" }},
		{"", func(s string) bool { return s == "" }},
		{"RFC3339", func(s string) bool { return strings.Contains(s, "T") }},
		{"Kitchen", func(s string) bool { return strings.HasSuffix(s, "M") }},
		{"2006", func(s string) bool { return len(s) == 4 }},
	}

	for _, tt := range tests {
		var buf bytes.Buffer

		Make(&buf, WithFormat(FormatJSON), WithTimeLayout(tt.layout)).Info("x")

		lines := decodeLines(t, &buf)
		ts, _ := lines[0]["time"].(string)

		if !tt.check(ts) {
			t.Errorf("layout %q produced time %q", tt.layout, ts)
		}
	}
}

func TestLogger_Concurrent(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		buf bytes.Buffer
		wg  sync.WaitGroup
	)

	logger := Make(writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	}), WithFormat(FormatJSON))

	for i := range 16 {
		wg.Go(func() {
			logger.With(slog.Int("worker", i)).Info("tick")
		})
	}

	wg.Wait()

	if got := len(decodeLines(t, &buf)); got != 16 {
		t.Errorf("got %d records, want 16", got)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
