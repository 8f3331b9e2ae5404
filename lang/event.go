package lang

import (
	"log/slog"
	"strconv"
)

// LogLevel is the severity of a [LogEvent].
type LogLevel uint8

const (
	LogInfo  LogLevel = iota // info
	LogWarn                  // warn
	LogError                 // error
)

func (l LogLevel) String() string {
	switch l {
	case LogInfo:
		return "info"
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	default:
		return "LogLevel(" + strconv.Itoa(int(l)) + ")"
	}
}

// Level maps l onto the corresponding [slog.Level].
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogEvent is a diagnostic message emitted as a side effect of evaluation.
// It never affects the computed result.
type LogEvent struct {
	Message string
	Level   LogLevel
}

// LogValue implements slog.LogValuer.
func (e LogEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", e.Level.String()),
		slog.String("message", e.Message),
	)
}
