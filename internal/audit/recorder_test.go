package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgate/internal/document/models"
	"docgate/internal/lifecycle"
	"docgate/internal/reminder"
	"docgate/pkg/domain"
)

type testEvent struct{ at time.Time }

func (e testEvent) Kind() string          { return "something.else" }
func (e testEvent) Key() string           { return "key" }
func (e testEvent) OccurredAt() time.Time { return e.at }

func TestRecorderConsume(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	docID := domain.NewDocumentID()

	store := NewInMemoryStore()
	recorder := NewRecorder(store)

	require.NoError(t, recorder.Consume(ctx, lifecycle.StatusChanged{
		DocumentID: docID,
		From:       models.StatusPending,
		To:         models.StatusInReview,
		ActorID:    "admin-7",
		At:         now,
	}))
	require.NoError(t, recorder.Consume(ctx, reminder.Sent{
		DocumentID: docID,
		OwnerID:    domain.CitizenID(uuid.New()),
		At:         now.Add(time.Minute),
	}))
	// Unknown kinds are skipped without error.
	require.NoError(t, recorder.Consume(ctx, testEvent{at: now}))

	entries := store.All()
	require.Len(t, entries, 2)

	assert.Equal(t, ActionStatusChanged, entries[0].Action)
	assert.Equal(t, docID.String(), entries[0].DocumentID)
	assert.Equal(t, "admin-7", entries[0].ActorID)
	assert.Equal(t, "pending -> in_review", entries[0].Detail)
	assert.Equal(t, now, entries[0].At)
	assert.NotEqual(t, uuid.Nil, entries[0].ID)

	assert.Equal(t, ActionReminderSent, entries[1].Action)
	assert.Empty(t, entries[1].ActorID)
	assert.Contains(t, entries[1].Detail, "owner ")
}

func TestRecorderTrail(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	docID := domain.NewDocumentID()
	otherID := domain.NewDocumentID()

	store := NewInMemoryStore()
	recorder := NewRecorder(store)

	// Appended out of order; the trail comes back chronological.
	require.NoError(t, recorder.Consume(ctx, lifecycle.StatusChanged{
		DocumentID: docID,
		From:       models.StatusInReview,
		To:         models.StatusApproved,
		ActorID:    "admin-7",
		At:         now.Add(time.Hour),
	}))
	require.NoError(t, recorder.Consume(ctx, lifecycle.StatusChanged{
		DocumentID: docID,
		From:       models.StatusPending,
		To:         models.StatusInReview,
		ActorID:    "admin-3",
		At:         now,
	}))
	require.NoError(t, recorder.Consume(ctx, lifecycle.StatusChanged{
		DocumentID: otherID,
		From:       models.StatusPending,
		To:         models.StatusInReview,
		ActorID:    "admin-3",
		At:         now,
	}))

	trail, err := recorder.Trail(ctx, docID.String())
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, "pending -> in_review", trail[0].Detail)
	assert.Equal(t, "in_review -> approved", trail[1].Detail)

	empty, err := recorder.Trail(ctx, domain.NewDocumentID().String())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
