package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of a pretty handler, bound to the renderer of
// its output so colors are dropped when the output is not a terminal.
type palette struct {
	key, str, num, boolean, faint lipgloss.Style
	level                         [5]lipgloss.Style
}

const (
	styleTrace = iota
	styleDebug
	styleInfo
	styleWarn
	styleError
)

func makePalette(r *lipgloss.Renderer) palette {
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return palette{
		key:     fg("8"),
		str:     fg("6"),
		num:     fg("3"),
		boolean: fg("2"),
		faint:   fg("8"),
		level: [5]lipgloss.Style{
			styleTrace: fg("5"),
			styleDebug: fg("4"),
			styleInfo:  fg("2").Bold(true),
			styleWarn:  fg("3").Bold(true),
			styleError: fg("1").Bold(true),
		},
	}
}

func levelStyle(l slog.Level) int {
	switch {
	case l >= slog.LevelError:
		return styleError
	case l >= slog.LevelWarn:
		return styleWarn
	case l >= slog.LevelInfo:
		return styleInfo
	case l >= slog.LevelDebug:
		return styleDebug
	default:
		return styleTrace
	}
}

// prettyHandler renders records for humans: one colorized key=value line
// per record, or an indented block with one field per line.
type prettyHandler struct {
	w          io.Writer
	mu         *sync.Mutex
	formatTime FormatTime
	opts       slog.HandlerOptions
	palette    palette
	prefix     string // group path applied to new attributes
	attrs      []slog.Attr
	block      bool
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	block bool,
	formatTime FormatTime,
) *prettyHandler {
	return &prettyHandler{
		w:          w,
		mu:         &sync.Mutex{},
		formatTime: formatTime,
		opts:       *opts,
		palette:    makePalette(lipgloss.NewRenderer(w)),
		block:      block,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	least := slog.LevelInfo
	if h.opts.Level != nil {
		least = h.opts.Level.Level()
	}

	return level >= least
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	fields := 0
	field := func(key string, render string) {
		switch {
		case h.block && fields == 0:
			buf.WriteString("{\n  ")
		case h.block:
			buf.WriteString(",\n  ")
		case fields > 0:
			buf.WriteByte(' ')
		}

		fields++

		buf.WriteString(h.palette.key.Render(key))

		if h.block {
			buf.WriteString(": ")
		} else {
			buf.WriteByte('=')
		}

		buf.WriteString(render)
	}

	if !r.Time.IsZero() {
		if s := h.formatTime(r.Time); s != "" {
			field(slog.TimeKey, h.palette.faint.Render(s))
		}
	}

	field(slog.LevelKey, h.palette.level[levelStyle(r.Level)].Render(
		strings.ToUpper(Level(r.Level).String())))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			field(slog.SourceKey, h.palette.faint.Render(
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	field(slog.MessageKey, h.palette.str.Render(r.Message))

	for _, a := range h.attrs {
		h.attr(field, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.attr(field, h.prefix, a)

		return true
	})

	if h.block {
		buf.WriteString("\n}")
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// attr flattens groups into dotted keys.
func (h *prettyHandler) attr(field func(string, string), prefix string, a slog.Attr) {
	v := a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, ga := range v.Group() {
			h.attr(field, prefix, ga)
		}

		return
	}

	field(prefix+a.Key, h.value(v))
}

func (h *prettyHandler) value(v slog.Value) string {
	p := h.palette

	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		return p.boolean.Render(strconv.FormatBool(v.Bool()))
	case slog.KindDuration:
		return p.num.Render(v.Duration().String())
	case slog.KindTime:
		return p.faint.Render(v.Time().Format(time.RFC3339Nano))
	}

	switch x := v.Any().(type) {
	case nil:
		return p.faint.Render("null")
	case error:
		return p.level[styleError].Render(x.Error())
	default:
		return p.str.Render(fmt.Sprint(x))
	}
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)

	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		clone.attrs = append(clone.attrs, a)
	}

	return &clone
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.prefix = h.prefix + name + "."

	return &clone
}
