// Package store defines the document store port and its implementations.
//
// The core never holds document lists in ambient state; everything flows
// through this interface so the service stays the single source of truth the
// console reconciles against.
package store

import (
	"context"

	"docgate/internal/document/models"
	"docgate/pkg/domain"
)

// Filter narrows List results. Nil fields match everything.
type Filter struct {
	OwnerID *domain.CitizenID
	Status  *models.Status
}

// Store is the document persistence port.
//
// Save enforces optimistic concurrency: it succeeds only when the persisted
// version still equals expectedVersion, incrementing it atomically. A losing
// writer receives sentinel.ErrConflict and must not retry automatically.
type Store interface {
	// Create inserts a freshly submitted document. Intake only; the
	// lifecycle engine never creates documents.
	Create(ctx context.Context, doc *models.Document) error

	// FindByID returns the document or sentinel.ErrNotFound.
	FindByID(ctx context.Context, id domain.DocumentID) (*models.Document, error)

	// Save persists a mutated document under the version check and returns
	// the stored state with the incremented version.
	Save(ctx context.Context, doc *models.Document, expectedVersion int64) (*models.Document, error)

	// List returns documents matching the filter, ordered by submission time.
	List(ctx context.Context, filter Filter) ([]*models.Document, error)
}
