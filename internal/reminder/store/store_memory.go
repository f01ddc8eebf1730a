// Package store holds the reminder log implementations. The engine owns the
// Log interface it consumes; both implementations here satisfy it.
package store

import (
	"context"
	"sync"
	"time"

	"docgate/internal/reminder"
	"docgate/pkg/domain"
	"docgate/pkg/platform/sentinel"
)

// InMemoryLog keeps reminder records in a mutex-guarded map, newest last.
type InMemoryLog struct {
	mu      sync.RWMutex
	records map[domain.DocumentID][]reminder.Record
}

func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{records: make(map[domain.DocumentID][]reminder.Record)}
}

func (l *InMemoryLog) Append(_ context.Context, record reminder.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[record.DocumentID] = append(l.records[record.DocumentID], record)
	return nil
}

func (l *InMemoryLog) LastSuccess(_ context.Context, id domain.DocumentID) (time.Time, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	records := l.records[id]
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Outcome == reminder.OutcomeSuccess {
			return records[i].AttemptedAt, nil
		}
	}
	return time.Time{}, sentinel.ErrNotFound
}

// Records returns a copy of the log for a document, oldest first. Test helper.
func (l *InMemoryLog) Records(id domain.DocumentID) []reminder.Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]reminder.Record(nil), l.records[id]...)
}
