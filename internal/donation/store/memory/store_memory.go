package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"refguard/internal/donation"
	"refguard/internal/reference"
	"refguard/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	donations map[uuid.UUID]donation.Donation
	profiles  map[reference.ID]donation.Profile
	teams     map[uuid.UUID]donation.Team
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		donations: make(map[uuid.UUID]donation.Donation),
		profiles:  make(map[reference.ID]donation.Profile),
		teams:     make(map[uuid.UUID]donation.Team),
	}
}

func (s *InMemoryStore) SaveDonation(_ context.Context, d *donation.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.donations[d.ID] = *d
	return nil
}

func (s *InMemoryStore) FindDonation(_ context.Context, id uuid.UUID) (*donation.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &d, nil
}

// ListByDonor returns a donor's donations oldest first.
func (s *InMemoryStore) ListByDonor(_ context.Context, donorID reference.ID) ([]*donation.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*donation.Donation
	for _, d := range s.donations {
		if d.Donor.ID == donorID {
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) SaveProfile(_ context.Context, p *donation.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.User.ID] = *p
	return nil
}

func (s *InMemoryStore) FindProfile(_ context.Context, userID reference.ID) (*donation.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) SaveTeam(_ context.Context, t *donation.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	cp.Members = append([]reference.Reference(nil), t.Members...)
	s.teams[t.ID] = cp
	return nil
}

func (s *InMemoryStore) FindTeam(_ context.Context, id uuid.UUID) (*donation.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	t.Members = append([]reference.Reference(nil), t.Members...)
	return &t, nil
}

// Len returns the number of stored donations.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.donations)
}
