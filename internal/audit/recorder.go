package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"docgate/internal/events"
	"docgate/internal/lifecycle"
	"docgate/internal/reminder"
)

// Recorder turns document events into audit entries. It implements
// events.Sink and runs inside the event worker.
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Consume maps one event to an audit entry. Unknown event kinds are skipped
// so new events never break the trail.
func (r *Recorder) Consume(ctx context.Context, event events.Event) error {
	entry := Entry{
		ID: uuid.New(),
		At: event.OccurredAt(),
	}
	switch e := event.(type) {
	case lifecycle.StatusChanged:
		entry.Action = ActionStatusChanged
		entry.DocumentID = e.DocumentID.String()
		entry.ActorID = e.ActorID
		entry.Detail = fmt.Sprintf("%s -> %s", e.From, e.To)
	case reminder.Sent:
		entry.Action = ActionReminderSent
		entry.DocumentID = e.DocumentID.String()
		entry.Detail = "owner " + e.OwnerID.String()
	default:
		return nil
	}
	return r.store.Append(ctx, entry)
}

// Trail returns the audit entries for one document, oldest first.
func (r *Recorder) Trail(ctx context.Context, documentID string) ([]Entry, error) {
	return r.store.ListByDocument(ctx, documentID)
}
