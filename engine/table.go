package engine

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/ardnew/eidolon/lang"
)

// Handle is an opaque reference to an Engine owned by a [Table]. The zero
// Handle is never valid.
type Handle uint64

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(index)<<32 | uint64(gen))
}

func (h Handle) index() uint32 { return uint32(h >> 32) }
func (h Handle) gen() uint32   { return uint32(h) }

func (h Handle) String() string {
	return strconv.FormatUint(uint64(h.index()), 10) + "#" +
		strconv.FormatUint(uint64(h.gen()), 10)
}

// LogValue implements slog.LogValuer.
func (h Handle) LogValue() slog.Value { return slog.StringValue(h.String()) }

type slot struct {
	engine *Engine
	gen    uint32
}

// Table maps handles to engines. Destroyed slots are reused with a new
// generation, so a stale handle is reported as invalid rather than reaching
// another engine.
//
// The zero Table is ready to use and safe for concurrent use.
type Table struct {
	slots []slot
	free  []uint32
	mu    sync.RWMutex
}

// Create starts a new Engine and returns its handle.
func (t *Table) Create(opts ...Option) Handle {
	e := New(opts...)

	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.free); n > 0 {
		index := t.free[n-1]
		t.free = t.free[:n-1]

		s := &t.slots[index]
		s.engine = e

		return makeHandle(index, s.gen)
	}

	// Generations start at 1 so no live handle is zero.
	t.slots = append(t.slots, slot{engine: e, gen: 1})

	return makeHandle(uint32(len(t.slots)-1), 1)
}

// Engine returns the engine referenced by h.
func (t *Table) Engine(h Handle) (*Engine, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	index := h.index()
	if int(index) >= len(t.slots) {
		return nil, ErrInvalidHandle.With(slog.Any("handle", h))
	}

	s := t.slots[index]
	if s.engine == nil || s.gen != h.gen() {
		return nil, ErrInvalidHandle.With(slog.Any("handle", h))
	}

	return s.engine, nil
}

// Evaluate calls [Engine.Evaluate] on the engine referenced by h.
func (t *Table) Evaluate(
	ctx context.Context,
	h Handle,
	source string,
	globals lang.Globals,
) (string, error) {
	e, err := t.Engine(h)
	if err != nil {
		return "", err
	}

	return e.Evaluate(ctx, source, globals)
}

// SetLogSink calls [Engine.SetLogSink] on the engine referenced by h.
func (t *Table) SetLogSink(h Handle, sink Sink) error {
	e, err := t.Engine(h)
	if err != nil {
		return err
	}

	e.SetLogSink(sink)

	return nil
}

// Destroy closes the engine referenced by h and invalidates h.
func (t *Table) Destroy(h Handle) error {
	t.mu.Lock()

	index := h.index()
	if int(index) >= len(t.slots) ||
		t.slots[index].engine == nil ||
		t.slots[index].gen != h.gen() {
		t.mu.Unlock()

		return ErrInvalidHandle.With(slog.Any("handle", h))
	}

	e := t.retire(index)
	t.mu.Unlock()

	return e.Close()
}

// retire empties the slot at index and returns its engine. The caller holds
// t.mu for writing.
func (t *Table) retire(index uint32) *Engine {
	s := &t.slots[index]
	e := s.engine
	s.engine = nil

	if s.gen++; s.gen == 0 {
		s.gen = 1
	}

	t.free = append(t.free, index)

	return e
}

// Len returns the number of live engines.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.slots) - len(t.free)
}

// Close destroys every live engine.
func (t *Table) Close() error {
	t.mu.Lock()

	var live []*Engine

	for i := range t.slots {
		if t.slots[i].engine != nil {
			live = append(live, t.retire(uint32(i)))
		}
	}

	t.mu.Unlock()

	for _, e := range live {
		_ = e.Close()
	}

	return nil
}
