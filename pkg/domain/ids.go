// Package domain holds the typed identifiers shared across the gateway.
//
// Every aggregate reference is a distinct uuid-backed type so the compiler
// rejects cross-wiring (passing a CitizenID where a DocumentID is expected).
// Construct IDs via the Parse helpers at trust boundaries; direct casting
// bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "docgate/pkg/domain-errors"
)

type (
	// DocumentID identifies a citizen document/application under lifecycle control.
	DocumentID uuid.UUID
	// CitizenID identifies the citizen owning a document. Borrowed reference:
	// the citizen aggregate lives in the citizen service, not here.
	CitizenID uuid.UUID
	// ServiceID identifies the e-service that produced a document.
	ServiceID uuid.UUID
	// DepartmentID identifies the issuing department.
	DepartmentID uuid.UUID
)

func (id DocumentID) String() string   { return uuid.UUID(id).String() }
func (id CitizenID) String() string    { return uuid.UUID(id).String() }
func (id ServiceID) String() string    { return uuid.UUID(id).String() }
func (id DepartmentID) String() string { return uuid.UUID(id).String() }

func (id DocumentID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id CitizenID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }

// NewDocumentID mints a fresh document identifier.
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// ParseDocumentID constructs a DocumentID from external input.
// Rejects empty strings, malformed UUIDs, and the nil UUID.
func ParseDocumentID(raw string) (DocumentID, error) {
	parsed, err := parseUUID(raw, "document id")
	if err != nil {
		return DocumentID{}, err
	}
	return DocumentID(parsed), nil
}

// ParseCitizenID constructs a CitizenID from external input.
func ParseCitizenID(raw string) (CitizenID, error) {
	parsed, err := parseUUID(raw, "citizen id")
	if err != nil {
		return CitizenID{}, err
	}
	return CitizenID(parsed), nil
}

func parseUUID(raw, what string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" is not a valid uuid")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil uuid")
	}
	return parsed, nil
}
