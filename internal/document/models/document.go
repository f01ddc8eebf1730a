// Package models holds the document aggregate and its transition rules.
package models

import (
	"strings"
	"time"

	"docgate/pkg/domain"
	dErrors "docgate/pkg/domain-errors"
)

// Document is the aggregate root for a citizen document/application under
// lifecycle control.
//
// Invariants:
//   - RejectionReason is non-empty if and only if Status == rejected
//   - History is never empty once the document exists, never reordered,
//     never truncated; the last entry always matches Status
//   - ApprovedAt/IssuedAt record first occurrence only and are never cleared
//   - ExpiryDate, when present, is after SubmittedAt
//   - Category is immutable after intake
//
// Version is the optimistic concurrency stamp the store checks and increments
// on save; two writers racing from the same version cannot both win.
type Document struct {
	ID           domain.DocumentID     `json:"id"`
	OwnerID      domain.CitizenID      `json:"owner_id"`
	ServiceID    domain.ServiceID      `json:"service_id"`
	DepartmentID domain.DepartmentID   `json:"department_id"`
	Type         string                `json:"type"`
	Category     Category              `json:"category"`
	Status       Status                `json:"status"`

	RejectionReason string     `json:"rejection_reason,omitempty"`
	DocumentNumber  string     `json:"document_number,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	IssuedAt        *time.Time `json:"issued_at,omitempty"`

	History   []HistoryEntry `json:"history"`
	Version   int64          `json:"version"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// HistoryEntry is one audit trail record on the document itself.
// Entries are appended per transition in chronological order.
type HistoryEntry struct {
	Status  Status    `json:"status"`
	At      time.Time `json:"at"`
	ActorID string    `json:"actor_id"`
	Note    string    `json:"note,omitempty"`
}

// NewDocument builds a freshly submitted document in pending status with its
// initial history entry. Intake is performed by the submission collaborator;
// docgate only governs transitions afterwards.
func NewDocument(
	id domain.DocumentID,
	owner domain.CitizenID,
	serviceID domain.ServiceID,
	department domain.DepartmentID,
	docType string,
	category Category,
	expiry *time.Time,
	now time.Time,
) (*Document, error) {
	docType = strings.TrimSpace(docType)
	if docType == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document type cannot be empty")
	}
	if !validCategories[category] {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown document category")
	}
	if expiry != nil && !expiry.After(now) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "expiry date must be after submission")
	}
	return &Document{
		ID:           id,
		OwnerID:      owner,
		ServiceID:    serviceID,
		DepartmentID: department,
		Type:         docType,
		Category:     category,
		Status:       StatusPending,
		SubmittedAt:  now,
		ExpiryDate:   expiry,
		History: []HistoryEntry{
			{Status: StatusPending, At: now, Note: "submitted"},
		},
		Version:   1,
		UpdatedAt: now,
	}, nil
}

// CanTransitionTo validates the transition matrix without mutating the document.
// Check order mirrors operator expectations: permanence of terminal states is
// reported before anything else, including a repeat of the current status.
func (d *Document) CanTransitionTo(target Status, rejectionReason string) error {
	if !validStatuses[target] {
		return dErrors.New(dErrors.CodeInvalidInput, "unknown document status")
	}
	if d.Status.IsTerminal() {
		return dErrors.New(dErrors.CodeTerminalState, "document is in a terminal state")
	}
	if target == d.Status {
		return dErrors.New(dErrors.CodeNoOp, "document already has the requested status")
	}
	if target == StatusRejected {
		if strings.TrimSpace(rejectionReason) == "" {
			return dErrors.New(dErrors.CodeValidation, "rejection reason is required")
		}
		return nil
	}
	if strings.TrimSpace(rejectionReason) != "" {
		return dErrors.New(dErrors.CodeValidation, "rejection reason is only allowed when rejecting")
	}
	switch {
	case d.Status == StatusPending && target == StatusInReview:
		return nil
	case d.Status == StatusInReview && target.IsTerminalSuccess():
		if target != d.Category.TerminalSuccess() {
			return dErrors.New(dErrors.CodeIllegalTransition,
				"status "+string(target)+" is not valid for category "+string(d.Category))
		}
		return nil
	}
	return dErrors.New(dErrors.CodeIllegalTransition,
		"cannot transition from "+string(d.Status)+" to "+string(target))
}

// ApplyTransition mutates the document for an already-validated transition:
// status, rejection reason, first-occurrence issue stamps, history entry.
// Call CanTransitionTo first; the lifecycle service pairs the two under the
// store's version check.
func (d *Document) ApplyTransition(target Status, actorID, note, rejectionReason, documentNumber string, now time.Time) {
	d.Status = target
	if target == StatusRejected {
		d.RejectionReason = strings.TrimSpace(rejectionReason)
	}
	if target.IsTerminalSuccess() {
		if d.ApprovedAt == nil {
			at := now
			d.ApprovedAt = &at
		}
		if d.IssuedAt == nil {
			at := now
			d.IssuedAt = &at
		}
		if d.DocumentNumber == "" {
			d.DocumentNumber = documentNumber
		}
	}
	d.History = append(d.History, HistoryEntry{
		Status:  target,
		At:      now,
		ActorID: actorID,
		Note:    strings.TrimSpace(note),
	})
	d.UpdatedAt = now
}

// Clone returns a deep copy so stores can hand out documents without aliasing
// their internal state.
func (d *Document) Clone() *Document {
	clone := *d
	clone.History = append([]HistoryEntry(nil), d.History...)
	if d.ExpiryDate != nil {
		expiry := *d.ExpiryDate
		clone.ExpiryDate = &expiry
	}
	if d.ApprovedAt != nil {
		at := *d.ApprovedAt
		clone.ApprovedAt = &at
	}
	if d.IssuedAt != nil {
		at := *d.IssuedAt
		clone.IssuedAt = &at
	}
	return &clone
}
