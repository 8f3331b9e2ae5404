package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardnew/eidolon/cli/cmd"
	"github.com/ardnew/eidolon/pkg"
)

func TestMain(m *testing.M) {
	// configDir and cacheDir are computed once per process.
	home, err := os.MkdirTemp("", pkg.Name)
	if err != nil {
		panic(err)
	}

	os.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))

	code := m.Run()

	os.RemoveAll(home)
	os.Exit(code)
}

// run executes the CLI with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	ctx := cmd.WithOutput(t.Context(), &out)
	ctx = cmd.WithInput(ctx, strings.NewReader(""))

	err := Run(ctx, func(code int) {
		t.Logf("exit(%d)", code)
	}, append([]string{"--log-level=error"}, args...)...)

	return out.String(), err
}

func TestRun_Eval(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default_command", []string{"-e", "2 + 2 * 2"}, "6\n"},
		{"explicit", []string{"eval", "-e", "max[3, 7]"}, "7\n"},
		{"globals", []string{"eval", "-g", "r=3", "-e", "$r ^ 2"}, "9\n"},
		{"substitute", []string{"eval", "--substitute", "-g", "n=4", "-e", "$n * 2"}, "8\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("Run(%q): %v", tt.args, err)
			}

			if got != tt.want {
				t.Errorf("Run(%q) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestRun_EvalError(t *testing.T) {
	if _, err := run(t, "eval", "-e", "1 / 0"); err == nil {
		t.Error("Run(1 / 0) succeeded")
	}
}

func TestRun_Fmt(t *testing.T) {
	got, err := run(t, "fmt", "-e", "((1 + 2)) * 3")
	if err != nil {
		t.Fatal(err)
	}

	if got != "(1 + 2) * 3\n" {
		t.Errorf("fmt = %q", got)
	}
}

func TestRun_Builtins(t *testing.T) {
	got, err := run(t, "builtins", "--json")
	if err != nil {
		t.Fatal(err)
	}

	var entries []map[string]any
	if err := json.Unmarshal([]byte(got), &entries); err != nil {
		t.Fatalf("builtins --json: %v\n%s", err, got)
	}

	if len(entries) == 0 {
		t.Error("builtins --json listed nothing")
	}
}

func TestRun_InitThenConfigure(t *testing.T) {
	if _, err := run(t, "init", "--force"); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(configPath(baseConfigYAML))
	if err != nil {
		t.Fatal(err)
	}

	text := string(data)
	if !strings.HasPrefix(text, "# "+pkg.Name+" ") || !strings.Contains(text, "log-level") {
		t.Errorf("config file:\n%s", text)
	}

	if _, err := run(t, "init"); err == nil {
		t.Error("init without --force overwrote the configuration file")
	}

	// The written configuration must be readable on the next run.
	if got, err := run(t, "-e", "1 + 1"); err != nil || got != "2\n" {
		t.Errorf("Run after init = (%q, %v)", got, err)
	}
}

func TestLogConfig_Scan(t *testing.T) {
	var f logConfig

	f.scan([]string{
		"eval", "--log-level", "debug", "--log-format=json",
		"--no-log-pretty", "--log-caller=true", "-e", "1",
	})

	if f.Level != "debug" || f.Format != "json" || f.Pretty || !f.Caller {
		t.Errorf("scan = %+v", f)
	}

	// Restore the default logger for later tests.
	f.Level, f.Format, f.Pretty, f.Caller = "error", "text", false, false
	f.start(t.Context())
}
