package audit

import (
	"context"
	"sort"
	"sync"
)

// Store persists audit entries. Append-only; entries are never mutated.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListByDocument(ctx context.Context, documentID string) ([]Entry, error)
}

// InMemoryStore keeps entries in a mutex-guarded slice for development and
// tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryStore) ListByDocument(_ context.Context, documentID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for _, entry := range s.entries {
		if entry.DocumentID == documentID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

// All returns every entry in insertion order. Test helper.
func (s *InMemoryStore) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.entries...)
}
