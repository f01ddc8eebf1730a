// Package events carries domain events from the core to downstream consumers
// (citizen notification, audit log, analytics) without blocking the emitting
// operation.
package events

import "time"

// Event is a domain fact emitted after a successful operation.
type Event interface {
	// Kind names the event for routing ("document.status_changed", ...).
	Kind() string
	// Key identifies the subject, used as the Kafka partition key.
	Key() string
	// OccurredAt is when the fact became true.
	OccurredAt() time.Time
}
