package models

import dErrors "docgate/pkg/domain-errors"

// Status is the lifecycle state of a document.
//
// Legal transitions:
//
//	pending   -> in_review | rejected
//	in_review -> rejected | one terminal-success status fixed by the
//	             document's category (approved, signed, or completed)
//
// Terminal states are permanent. The legacy console allowed re-approving an
// already-rejected e-signature document by re-running the upload action; that
// path is treated as a bug and rejected here.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusSigned    Status = "signed"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
)

var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusInReview:  true,
	StatusApproved:  true,
	StatusSigned:    true,
	StatusCompleted: true,
	StatusRejected:  true,
}

// ParseStatus constructs a Status from external input, enforcing the allowlist.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !validStatuses[s] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown document status")
	}
	return s, nil
}

// IsTerminal reports whether no further transition is permitted from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusApproved, StatusSigned, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// IsTerminalSuccess reports whether s is one of the terminal-success variants.
func (s Status) IsTerminalSuccess() bool {
	switch s {
	case StatusApproved, StatusSigned, StatusCompleted:
		return true
	}
	return false
}

// Category determines which terminal-success status a document may reach.
// It is fixed at intake time and immutable thereafter.
type Category string

const (
	// CategoryApplication covers standard applications that terminate at approved.
	CategoryApplication Category = "application"
	// CategoryServiceRequest covers processed service requests terminating at completed.
	CategoryServiceRequest Category = "service_request"
	// CategoryESignature covers e-signature documents terminating at signed.
	CategoryESignature Category = "esignature"
)

var validCategories = map[Category]bool{
	CategoryApplication:    true,
	CategoryServiceRequest: true,
	CategoryESignature:     true,
}

// ParseCategory constructs a Category from external input.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !validCategories[c] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown document category")
	}
	return c, nil
}

// TerminalSuccess returns the only terminal-success status legal for the category.
func (c Category) TerminalSuccess() Status {
	switch c {
	case CategoryESignature:
		return StatusSigned
	case CategoryServiceRequest:
		return StatusCompleted
	default:
		return StatusApproved
	}
}
