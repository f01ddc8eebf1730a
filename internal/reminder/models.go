// Package reminder implements the expiry reminder selection and dispatch engine.
package reminder

import (
	"context"
	"time"

	"docgate/pkg/domain"
)

// Outcome is the result of one dispatch attempt or eligibility check.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// FailureReason explains a per-document failure inside a DispatchReport.
// These are report details, not call errors: one document failing never fails
// the batch.
type FailureReason string

const (
	ReasonNotFound         FailureReason = "not_found"
	ReasonWalletSuspended  FailureReason = "wallet_suspended"
	ReasonNoContactInfo    FailureReason = "no_contact_info"
	ReasonCooldownActive   FailureReason = "cooldown_active"
	ReasonTimeout          FailureReason = "timeout"
	ReasonTransportFailure FailureReason = "transport_failure"
)

// Record is one append-only reminder log entry, written per transport attempt.
// Successful records arm the cooldown; failures do not.
type Record struct {
	DocumentID  domain.DocumentID `json:"document_id"`
	AttemptedAt time.Time         `json:"attempted_at"`
	Outcome     Outcome           `json:"outcome"`
	ErrorDetail string            `json:"error_detail,omitempty"`
}

// Log is the append-only reminder record store. LastSuccess drives the
// cooldown check; it returns sentinel.ErrNotFound when the document has no
// successful send on record. Implementations live in the store subpackage.
type Log interface {
	Append(ctx context.Context, record Record) error
	LastSuccess(ctx context.Context, id domain.DocumentID) (time.Time, error)
}

// ItemResult is the per-document entry in a DispatchReport.
type ItemResult struct {
	DocumentID domain.DocumentID `json:"document_id"`
	Outcome    Outcome           `json:"outcome"`
	Reason     FailureReason     `json:"reason,omitempty"`
	Detail     string            `json:"detail,omitempty"`
}

// DispatchReport aggregates one reminder batch. Attempted counts every
// deduplicated requested document, whether or not it reached the transport.
type DispatchReport struct {
	Attempted int          `json:"attempted"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Details   []ItemResult `json:"details"`
}

// Sent is emitted for every successful reminder delivery.
type Sent struct {
	DocumentID domain.DocumentID `json:"document_id"`
	OwnerID    domain.CitizenID  `json:"owner_id"`
	At         time.Time         `json:"at"`
}

func (e Sent) Kind() string          { return "document.reminder_sent" }
func (e Sent) Key() string           { return e.DocumentID.String() }
func (e Sent) OccurredAt() time.Time { return e.At }

// Emitter decouples the engine from event delivery.
type Emitter interface {
	Emit(event Sent)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(Sent)

func (f EmitterFunc) Emit(event Sent) { f(event) }
