// Package log provides the structured logger shared by eidolon's packages,
// a thin layer over [log/slog].
//
// A [Logger] is created with [Make] and functional options, and is
// immutable afterward:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"))
//
//	logger.Info("evaluated", slog.Float64("result", 6))
//
// Every leveled method takes typed [slog.Attr] values rather than
// alternating keys and values. Each has a Context variant; the plain
// variants use [DefaultContextProvider].
//
// # Levels
//
// In addition to the slog levels the package defines [LevelTrace], used by
// the language packages for per-statement diagnostics. [Level] and [Format]
// implement [encoding.TextUnmarshaler], so they decode directly from flags
// and configuration files.
//
// # Pretty output
//
// [WithPretty] selects a colorized handler styled with lipgloss. In
// [FormatText] it writes one key=value line per record; in [FormatJSON] it
// writes an indented block per record. Colors are only emitted when the
// output is a terminal.
//
// # Default logger
//
// The package-level functions such as [Info] write through [Default], which
// can be replaced with [SetDefault].
package log
