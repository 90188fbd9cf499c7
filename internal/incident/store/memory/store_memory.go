package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"refguard/internal/incident"
	"refguard/pkg/platform/sentinel"
	"refguard/pkg/platform/tx"
)

// InMemoryStore keeps incidents in a map. Writes made inside a
// tx.MemoryRunner unit of work are undone if it fails.
type InMemoryStore struct {
	mu        sync.RWMutex
	incidents map[uuid.UUID]incident.Incident
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{incidents: make(map[uuid.UUID]incident.Incident)}
}

func (s *InMemoryStore) Save(ctx context.Context, inc *incident.Incident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.incidents[inc.ID]
	s.incidents[inc.ID] = *inc
	s.journal(ctx, inc.ID, prev, existed)
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*incident.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inc, ok := s.incidents[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &inc, nil
}

// FindForUpdate is FindByID: tx.MemoryRunner already serializes units of work.
func (s *InMemoryStore) FindForUpdate(ctx context.Context, id uuid.UUID) (*incident.Incident, error) {
	return s.FindByID(ctx, id)
}

func (s *InMemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.incidents[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.incidents, id)
	s.journal(ctx, id, prev, true)
	return nil
}

// List returns incidents ordered by creation time.
func (s *InMemoryStore) List(_ context.Context) ([]*incident.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*incident.Incident, 0, len(s.incidents))
	for _, inc := range s.incidents {
		out = append(out, &inc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// journal registers an undo step restoring id to prev. Caller holds mu.
func (s *InMemoryStore) journal(ctx context.Context, id uuid.UUID, prev incident.Incident, existed bool) {
	j, ok := tx.JournalFrom(ctx)
	if !ok {
		return
	}
	j.Record(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if existed {
			s.incidents[id] = prev
			return
		}
		delete(s.incidents, id)
	})
}
