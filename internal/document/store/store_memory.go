package store

import (
	"context"
	"sort"
	"sync"

	"docgate/internal/document/models"
	"docgate/pkg/domain"
	"docgate/pkg/platform/sentinel"
)

// InMemoryStore keeps documents in a mutex-guarded map. Used in development
// and unit tests; the version check gives the same conflict semantics as the
// PostgreSQL store.
type InMemoryStore struct {
	mu   sync.RWMutex
	docs map[domain.DocumentID]*models.Document
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[domain.DocumentID]*models.Document)}
}

func (s *InMemoryStore) Create(_ context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; exists {
		return sentinel.ErrConflict
	}
	s.docs[doc.ID] = doc.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.DocumentID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return doc.Clone(), nil
}

func (s *InMemoryStore) Save(_ context.Context, doc *models.Document, expectedVersion int64) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.docs[doc.ID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if current.Version != expectedVersion {
		return nil, sentinel.ErrConflict
	}
	updated := doc.Clone()
	updated.Version = expectedVersion + 1
	s.docs[doc.ID] = updated
	return updated.Clone(), nil
}

func (s *InMemoryStore) List(_ context.Context, filter Filter) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*models.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		if filter.OwnerID != nil && doc.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && doc.Status != *filter.Status {
			continue
		}
		result = append(result, doc.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].SubmittedAt.Before(result[j].SubmittedAt)
	})
	return result, nil
}
