package memory

import (
	"context"
	"sync"

	"refguard/internal/audit"
	"refguard/pkg/platform/tx"
)

type parentKey struct {
	kind audit.ParentKind
	id   string
}

func keyOf(p audit.Parent) parentKey {
	return parentKey{kind: p.Kind(), id: p.ID()}
}

// InMemoryStore keeps audit records per parent. Writes made inside a
// tx.MemoryRunner unit of work are undone if it fails.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[parentKey][]audit.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[parentKey][]audit.Record)}
}

func (s *InMemoryStore) Append(ctx context.Context, record audit.Record) error {
	key := keyOf(record.Parent)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append(s.records[key], record)

	if j, ok := tx.JournalFrom(ctx); ok {
		j.Record(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			recs := s.records[key]
			for i := len(recs) - 1; i >= 0; i-- {
				if recs[i].ID == record.ID {
					s.records[key] = append(recs[:i:i], recs[i+1:]...)
					break
				}
			}
		})
	}
	return nil
}

func (s *InMemoryStore) ListByParent(_ context.Context, parent audit.Parent) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Record{}, s.records[keyOf(parent)]...), nil
}

func (s *InMemoryStore) DeleteByParent(ctx context.Context, parent audit.Parent) (int, error) {
	key := keyOf(parent)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := s.records[key]
	delete(s.records, key)

	if j, ok := tx.JournalFrom(ctx); ok && len(removed) > 0 {
		j.Record(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.records[key] = append(removed, s.records[key]...)
		})
	}
	return len(removed), nil
}

// Count returns the total number of records across parents.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, recs := range s.records {
		n += len(recs)
	}
	return n
}
