package events

import (
	"log/slog"
	"sync/atomic"
)

// Bus is a bounded, non-blocking event channel between the core and its
// consumers. The emitting operation never waits: when the buffer is full the
// event is dropped and counted, because a slow consumer must not stall a
// transition or a reminder batch.
type Bus struct {
	ch      chan Event
	logger  *slog.Logger
	dropped atomic.Int64
}

// NewBus creates a bus with the given buffer capacity.
func NewBus(capacity int, logger *slog.Logger) *Bus {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Bus{
		ch:     make(chan Event, capacity),
		logger: logger,
	}
}

// Emit enqueues the event without blocking.
func (b *Bus) Emit(event Event) {
	select {
	case b.ch <- event:
	default:
		b.dropped.Add(1)
		b.logger.Warn("event bus full, dropping event",
			"kind", event.Kind(),
			"key", event.Key(),
		)
	}
}

// Events exposes the consuming side for the worker.
func (b *Bus) Events() <-chan Event { return b.ch }

// Dropped returns the total number of dropped events.
func (b *Bus) Dropped() int64 { return b.dropped.Load() }
