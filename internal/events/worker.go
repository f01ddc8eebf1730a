package events

import (
	"context"
	"log/slog"
)

// Sink consumes events delivered by the worker. Implementations: the audit
// recorder and the Kafka publisher.
type Sink interface {
	Consume(ctx context.Context, event Event) error
}

// Worker drains the bus and fans each event out to every sink. A failing sink
// is logged and skipped; the document history remains the authoritative
// record, event delivery is best-effort.
type Worker struct {
	inbox  <-chan Event
	sinks  []Sink
	logger *slog.Logger
}

func NewWorker(inbox <-chan Event, logger *slog.Logger, sinks ...Sink) *Worker {
	return &Worker{inbox: inbox, sinks: sinks, logger: logger}
}

// Run consumes until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			for _, sink := range w.sinks {
				if err := sink.Consume(ctx, event); err != nil {
					w.logger.ErrorContext(ctx, "event sink failed",
						"kind", event.Kind(),
						"key", event.Key(),
						"error", err,
					)
				}
			}
		}
	}
}
