package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"refguard/internal/messaging"
	"refguard/pkg/platform/sentinel"
	"refguard/pkg/platform/tx"
)

// table is a journaled map of values keyed by id.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[uuid.UUID]T)}
}

func (t *table[T]) put(ctx context.Context, id uuid.UUID, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, existed := t.rows[id]
	t.rows[id] = v
	t.journal(ctx, id, prev, existed)
}

func (t *table[T]) get(id uuid.UUID) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, sentinel.ErrNotFound
	}
	return v, nil
}

func (t *table[T]) remove(ctx context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, ok := t.rows[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(t.rows, id)
	t.journal(ctx, id, prev, true)
	return nil
}

func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []T
	for _, v := range t.rows {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// journal registers an undo step. Caller holds mu.
func (t *table[T]) journal(ctx context.Context, id uuid.UUID, prev T, existed bool) {
	j, ok := tx.JournalFrom(ctx)
	if !ok {
		return
	}
	j.Record(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if existed {
			t.rows[id] = prev
			return
		}
		delete(t.rows, id)
	})
}

// InMemoryStore implements messaging.Store. Writes made inside a
// tx.MemoryRunner unit of work are undone if it fails.
type InMemoryStore struct {
	conversations *table[messaging.Conversation]
	messages      *table[messaging.Message]
	notifications *table[messaging.Notification]
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		conversations: newTable[messaging.Conversation](),
		messages:      newTable[messaging.Message](),
		notifications: newTable[messaging.Notification](),
	}
}

func (s *InMemoryStore) SaveConversation(ctx context.Context, c *messaging.Conversation) error {
	s.conversations.put(ctx, c.ID, *c)
	return nil
}

func (s *InMemoryStore) FindConversation(_ context.Context, id uuid.UUID) (*messaging.Conversation, error) {
	c, err := s.conversations.get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *InMemoryStore) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	return s.conversations.remove(ctx, id)
}

func (s *InMemoryStore) SaveMessage(ctx context.Context, m *messaging.Message) error {
	s.messages.put(ctx, m.ID, *m)
	return nil
}

func (s *InMemoryStore) FindMessage(_ context.Context, id uuid.UUID) (*messaging.Message, error) {
	m, err := s.messages.get(id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindMessageForUpdate reads like FindMessage; tx.MemoryRunner already
// serializes units of work.
func (s *InMemoryStore) FindMessageForUpdate(ctx context.Context, id uuid.UUID) (*messaging.Message, error) {
	return s.FindMessage(ctx, id)
}

// ListMessages returns a conversation's messages oldest first.
func (s *InMemoryStore) ListMessages(_ context.Context, conversationID uuid.UUID) ([]*messaging.Message, error) {
	rows := s.messages.filter(func(m messaging.Message) bool { return m.ConversationID == conversationID })
	sortByCreated(rows, func(m messaging.Message) time.Time { return m.CreatedAt })
	out := make([]*messaging.Message, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func (s *InMemoryStore) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return s.messages.remove(ctx, id)
}

func (s *InMemoryStore) SaveNotification(ctx context.Context, n *messaging.Notification) error {
	s.notifications.put(ctx, n.ID, *n)
	return nil
}

func (s *InMemoryStore) FindNotification(_ context.Context, id uuid.UUID) (*messaging.Notification, error) {
	n, err := s.notifications.get(id)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *InMemoryStore) FindNotificationForUpdate(ctx context.Context, id uuid.UUID) (*messaging.Notification, error) {
	return s.FindNotification(ctx, id)
}

func (s *InMemoryStore) ListNotifications(_ context.Context, messageID uuid.UUID) ([]*messaging.Notification, error) {
	rows := s.notifications.filter(func(n messaging.Notification) bool { return n.MessageID == messageID })
	sortByCreated(rows, func(n messaging.Notification) time.Time { return n.CreatedAt })
	out := make([]*messaging.Notification, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func (s *InMemoryStore) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	return s.notifications.remove(ctx, id)
}

func sortByCreated[T any](rows []T, at func(T) time.Time) {
	sort.SliceStable(rows, func(i, j int) bool { return at(rows[i]).Before(at(rows[j])) })
}
