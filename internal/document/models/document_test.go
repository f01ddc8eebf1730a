package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgate/pkg/domain"
	dErrors "docgate/pkg/domain-errors"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestDocument(t *testing.T, category Category, status Status) *Document {
	t.Helper()
	expiry := testNow.Add(90 * 24 * time.Hour)
	doc, err := NewDocument(
		domain.NewDocumentID(),
		domain.CitizenID(uuid.New()),
		domain.ServiceID(uuid.New()),
		domain.DepartmentID(uuid.New()),
		"residence permit",
		category,
		&expiry,
		testNow,
	)
	require.NoError(t, err)
	doc.Status = status
	if status == StatusRejected {
		doc.RejectionReason = "incomplete file"
	}
	return doc
}

func TestNewDocument(t *testing.T) {
	doc := newTestDocument(t, CategoryApplication, StatusPending)

	assert.Equal(t, StatusPending, doc.Status)
	assert.Equal(t, int64(1), doc.Version)
	require.Len(t, doc.History, 1)
	assert.Equal(t, StatusPending, doc.History[0].Status)
	assert.Equal(t, "submitted", doc.History[0].Note)
}

func TestNewDocumentValidation(t *testing.T) {
	id := domain.NewDocumentID()
	owner := domain.CitizenID(uuid.New())
	service := domain.ServiceID(uuid.New())
	department := domain.DepartmentID(uuid.New())

	_, err := NewDocument(id, owner, service, department, "  ", CategoryApplication, nil, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation), "empty type")

	_, err = NewDocument(id, owner, service, department, "permit", Category("deed"), nil, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation), "unknown category")

	past := testNow.Add(-time.Hour)
	_, err = NewDocument(id, owner, service, department, "permit", CategoryApplication, &past, testNow)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation), "expiry before submission")
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		from     Status
		target   Status
		reason   string
		wantCode dErrors.Code
	}{
		{name: "pending to in_review", category: CategoryApplication, from: StatusPending, target: StatusInReview},
		{name: "in_review to approved for application", category: CategoryApplication, from: StatusInReview, target: StatusApproved},
		{name: "in_review to completed for service request", category: CategoryServiceRequest, from: StatusInReview, target: StatusCompleted},
		{name: "in_review to signed for esignature", category: CategoryESignature, from: StatusInReview, target: StatusSigned},
		{name: "pending rejected with reason", category: CategoryApplication, from: StatusPending, target: StatusRejected, reason: "missing attachment"},
		{name: "in_review rejected with reason", category: CategoryESignature, from: StatusInReview, target: StatusRejected, reason: "invalid signature"},

		{name: "unknown target", category: CategoryApplication, from: StatusPending, target: Status("archived"), wantCode: dErrors.CodeInvalidInput},
		{name: "same status is a no-op", category: CategoryApplication, from: StatusPending, target: StatusPending, wantCode: dErrors.CodeNoOp},
		{name: "rejected without reason", category: CategoryApplication, from: StatusInReview, target: StatusRejected, wantCode: dErrors.CodeValidation},
		{name: "reason on non-rejection", category: CategoryApplication, from: StatusPending, target: StatusInReview, reason: "oops", wantCode: dErrors.CodeValidation},
		{name: "pending straight to approved", category: CategoryApplication, from: StatusPending, target: StatusApproved, wantCode: dErrors.CodeIllegalTransition},
		{name: "foreign terminal success for category", category: CategoryESignature, from: StatusInReview, target: StatusApproved, wantCode: dErrors.CodeIllegalTransition},
		{name: "application cannot be signed", category: CategoryApplication, from: StatusInReview, target: StatusSigned, wantCode: dErrors.CodeIllegalTransition},
		{name: "in_review back to pending", category: CategoryApplication, from: StatusInReview, target: StatusPending, wantCode: dErrors.CodeIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newTestDocument(t, tt.category, tt.from)
			err := doc.CanTransitionTo(tt.target, tt.reason)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, tt.wantCode),
				"want %s, got %s", tt.wantCode, dErrors.CodeOf(err))
		})
	}
}

// Terminal states are permanent: every target fails, including the current
// status, and permanence wins over the no-op check.
func TestTerminalStatesArePermanent(t *testing.T) {
	terminals := []Status{StatusApproved, StatusSigned, StatusCompleted, StatusRejected}
	targets := []Status{StatusPending, StatusInReview, StatusApproved, StatusSigned, StatusCompleted, StatusRejected}

	for _, from := range terminals {
		for _, target := range targets {
			doc := newTestDocument(t, CategoryApplication, from)
			err := doc.CanTransitionTo(target, "some reason")
			require.Error(t, err, "%s -> %s", from, target)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeTerminalState),
				"%s -> %s: got %s", from, target, dErrors.CodeOf(err))
		}
	}
}

// Re-approving a rejected e-signature document was possible in the legacy
// console; it must stay rejected here.
func TestRejectedESignatureCannotBeReSigned(t *testing.T) {
	doc := newTestDocument(t, CategoryESignature, StatusRejected)
	err := doc.CanTransitionTo(StatusSigned, "")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTerminalState))
}

func TestApplyTransitionRejection(t *testing.T) {
	doc := newTestDocument(t, CategoryApplication, StatusInReview)
	at := testNow.Add(time.Hour)

	doc.ApplyTransition(StatusRejected, "admin-1", "", "  incomplete file  ", "DOC-UNUSED", at)

	assert.Equal(t, StatusRejected, doc.Status)
	assert.Equal(t, "incomplete file", doc.RejectionReason)
	assert.Nil(t, doc.ApprovedAt)
	assert.Empty(t, doc.DocumentNumber)
	require.Len(t, doc.History, 2)
	assert.Equal(t, StatusRejected, doc.History[len(doc.History)-1].Status)
	assert.Equal(t, "admin-1", doc.History[len(doc.History)-1].ActorID)
}

func TestApplyTransitionTerminalSuccessStamps(t *testing.T) {
	doc := newTestDocument(t, CategoryServiceRequest, StatusInReview)
	at := testNow.Add(2 * time.Hour)

	doc.ApplyTransition(StatusCompleted, "admin-2", "all checks passed", "", "DOC-AB12CD34", at)

	assert.Equal(t, StatusCompleted, doc.Status)
	require.NotNil(t, doc.ApprovedAt)
	require.NotNil(t, doc.IssuedAt)
	assert.Equal(t, at, *doc.ApprovedAt)
	assert.Equal(t, at, *doc.IssuedAt)
	assert.Equal(t, "DOC-AB12CD34", doc.DocumentNumber)
	assert.Equal(t, at, doc.UpdatedAt)

	// History grows by one and its last entry matches the new status.
	require.Len(t, doc.History, 2)
	assert.Equal(t, doc.Status, doc.History[len(doc.History)-1].Status)
	assert.Equal(t, "all checks passed", doc.History[len(doc.History)-1].Note)
}

func TestApplyTransitionKeepsExistingStamps(t *testing.T) {
	doc := newTestDocument(t, CategoryApplication, StatusInReview)
	earlier := testNow.Add(-24 * time.Hour)
	doc.ApprovedAt = &earlier
	doc.IssuedAt = &earlier
	doc.DocumentNumber = "DOC-ORIGINAL"

	doc.ApplyTransition(StatusApproved, "admin-1", "", "", "DOC-NEW", testNow)

	assert.Equal(t, earlier, *doc.ApprovedAt)
	assert.Equal(t, earlier, *doc.IssuedAt)
	assert.Equal(t, "DOC-ORIGINAL", doc.DocumentNumber)
}

func TestCloneIsDeep(t *testing.T) {
	doc := newTestDocument(t, CategoryApplication, StatusPending)
	clone := doc.Clone()

	clone.History[0].Note = "tampered"
	*clone.ExpiryDate = clone.ExpiryDate.Add(time.Hour)

	assert.Equal(t, "submitted", doc.History[0].Note)
	assert.NotEqual(t, *doc.ExpiryDate, *clone.ExpiryDate)
}
