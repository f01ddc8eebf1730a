package lifecycle

import (
	"time"

	"docgate/internal/document/models"
	"docgate/pkg/domain"
)

// StatusChanged is emitted after every successful transition. Downstream
// consumers (citizen notification, audit log, analytics) subscribe; the core
// never blocks on them. This is distinct from reminder dispatch, which is an
// explicit admin operation.
type StatusChanged struct {
	DocumentID domain.DocumentID `json:"document_id"`
	From       models.Status     `json:"from"`
	To         models.Status     `json:"to"`
	ActorID    string            `json:"actor_id,omitempty"`
	At         time.Time         `json:"at"`
}

func (e StatusChanged) Kind() string          { return "document.status_changed" }
func (e StatusChanged) Key() string           { return e.DocumentID.String() }
func (e StatusChanged) OccurredAt() time.Time { return e.At }

// Emitter decouples the state machine from event delivery. events.Bus
// satisfies it; tests use a recording stub.
type Emitter interface {
	Emit(event StatusChanged)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(StatusChanged)

func (f EmitterFunc) Emit(event StatusChanged) { f(event) }
