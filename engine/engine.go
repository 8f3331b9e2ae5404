package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/ardnew/eidolon/lang"
)

// Engine evaluates programs and delivers their log events to a [Sink].
//
// An Engine is safe for concurrent use. Evaluations on one Engine are
// serialized. Each evaluation starts from a fresh environment, so results
// never depend on earlier calls.
type Engine struct {
	sink   atomic.Pointer[Sink]
	box    *mailbox
	cfg    config
	seq    uint64
	mu     sync.Mutex
	closed bool
}

// New returns a ready Engine. It must be released with [Engine.Close].
func New(opts ...Option) *Engine {
	return &Engine{
		box: newMailbox(),
		cfg: makeConfig(opts...),
	}
}

// SetLogSink installs the sink receiving subsequent log events. Events
// already emitted are still delivered to the sink that was installed when
// they were emitted. A nil sink discards events.
func (e *Engine) SetLogSink(sink Sink) {
	if sink == nil {
		e.sink.Store(nil)

		return
	}

	e.sink.Store(&sink)
}

// Evaluate runs source with globals bound and returns the rendered value of
// its last statement.
func (e *Engine) Evaluate(
	ctx context.Context,
	source string,
	globals lang.Globals,
) (string, error) {
	v, err := e.EvaluateValue(ctx, source, globals)
	if err != nil {
		return "", err
	}

	return v.String(), nil
}

// EvaluateValue is like [Engine.Evaluate] but returns the unrendered value.
func (e *Engine) EvaluateValue(
	ctx context.Context,
	source string,
	globals lang.Globals,
) (lang.Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return lang.Value{}, ErrClosed
	}

	if e.cfg.substitute {
		source = lang.Substitute(source, globals)
	}

	opts := e.cfg.langOptions(e.emit)

	e.cfg.logger.TraceContext(ctx, "engine evaluate",
		slog.Int("source_bytes", len(source)),
		slog.Int("globals", len(globals)),
		slog.Bool("substitute", e.cfg.substitute),
	)

	prog, err := lang.ParseString(ctx, source, opts...)
	if err != nil {
		e.cfg.logger.DebugContext(ctx, "engine parse failed", slog.Any("error", err))

		return lang.Value{}, err
	}

	v, err := lang.Evaluate(ctx, prog, lang.NewEnvironment(globals), opts...)
	if err != nil {
		e.cfg.logger.DebugContext(ctx, "engine evaluate failed", slog.Any("error", err))

		return lang.Value{}, err
	}

	return v, nil
}

// EvaluateReader reads all of r and evaluates it.
func (e *Engine) EvaluateReader(
	ctx context.Context,
	r io.Reader,
	globals lang.Globals,
) (string, error) {
	source, err := lang.ReadSource(r)
	if err != nil {
		return "", err
	}

	return e.Evaluate(ctx, source, globals)
}

// EvaluateFile reads the file at path and evaluates it.
func (e *Engine) EvaluateFile(
	ctx context.Context,
	path string,
	globals lang.Globals,
) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", ErrOpenSource.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	return e.EvaluateReader(ctx, f, globals)
}

// emit is called by the evaluator with e.mu held.
func (e *Engine) emit(ev lang.LogEvent) {
	e.seq++

	d := delivery{event: Event{Seq: e.seq, Level: ev.Level, Message: ev.Message}}
	if s := e.sink.Load(); s != nil {
		d.sink = *s
	}

	e.box.push(d)
}

// Sync waits until every event emitted before the call has been passed to
// its sink, or until ctx is done. Called from a [Sink] of e, it can only
// return through ctx.
func (e *Engine) Sync(ctx context.Context) error {
	wait := e.box.barrier()
	if wait == nil {
		return nil
	}

	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// Close waits for any running evaluation, delivers all queued events, and
// releases the delivery goroutine. Later evaluations fail with [ErrClosed].
// Close is idempotent and always returns nil. It must not be called from a
// [Sink] of e.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.box.close()

	return nil
}
