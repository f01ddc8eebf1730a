// Package audit records admin actions as an append-only trail.
//
// Entries are written by a Recorder consuming the event stream, never from
// request handlers directly, so the trail stays off the request path.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies what an entry records.
type Action string

const (
	ActionStatusChanged Action = "document_status_changed"
	ActionReminderSent  Action = "reminder_sent"
)

// Entry is one immutable audit record.
type Entry struct {
	ID         uuid.UUID `json:"id"`
	At         time.Time `json:"at"`
	Action     Action    `json:"action"`
	DocumentID string    `json:"document_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}
