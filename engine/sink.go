package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ardnew/eidolon/lang"
	"github.com/ardnew/eidolon/log"
)

// Event is a [lang.LogEvent] tagged with its position in the engine's
// emission order.
type Event struct {
	Message string
	Seq     uint64
	Level   lang.LogLevel
}

// LogValue implements slog.LogValuer.
func (e Event) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("seq", e.Seq),
		slog.String("level", e.Level.String()),
		slog.String("message", e.Message),
	)
}

// Sink receives log events. Calls to one engine's sink are made from a
// single goroutine, one at a time, in emission order.
//
// A sink may evaluate on the engine delivering to it or replace its sink. It
// must not call that engine's [Engine.Close], or [Engine.Sync] with a
// context that never ends: both wait for the delivery in progress, which is
// the sink's own call, so they never return.
type Sink func(Event)

// LogTo returns a Sink that writes each event to l at the matching level.
func LogTo(l log.Logger) Sink {
	return func(e Event) {
		l.Log(context.Background(), log.Level(e.Level.Level()), e.Message,
			slog.Uint64("seq", e.Seq))
	}
}

// delivery is one mailbox entry: an event bound to the sink that was
// installed when it was emitted, or a barrier closed once reached.
type delivery struct {
	sink    Sink
	barrier chan struct{}
	event   Event
}

func (d delivery) deliver() {
	switch {
	case d.barrier != nil:
		close(d.barrier)
	case d.sink != nil:
		d.sink(d.event)
	}
}

// mailbox is an unbounded FIFO drained by one consumer goroutine.
// Producers never block on the consumer.
type mailbox struct {
	notify chan struct{}
	done   chan struct{}
	queue  []delivery
	mu     sync.Mutex
	closed bool
}

func newMailbox() *mailbox {
	m := &mailbox{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	go m.run()

	return m
}

// push enqueues d and reports whether the mailbox accepted it.
func (m *mailbox) push(d delivery) bool {
	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()

		return false
	}

	m.queue = append(m.queue, d)
	m.mu.Unlock()

	m.wake()

	return true
}

func (m *mailbox) wake() {
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

func (m *mailbox) run() {
	defer close(m.done)

	for range m.notify {
		m.mu.Lock()
		batch, closed := m.queue, m.closed
		m.queue = nil
		m.mu.Unlock()

		for _, d := range batch {
			d.deliver()
		}

		if closed {
			return
		}
	}
}

// barrier returns a channel closed once every delivery queued before it has
// been made. It returns nil if the mailbox is closed, since close drains.
func (m *mailbox) barrier() <-chan struct{} {
	ch := make(chan struct{})
	if !m.push(delivery{barrier: ch}) {
		return nil
	}

	return ch
}

// close stops accepting deliveries and waits for the queue to drain.
func (m *mailbox) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.wake()
	<-m.done
}
