package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"refguard/internal/messaging"
	"refguard/internal/reference"
	"refguard/pkg/platform/sentinel"
	txcontext "refguard/pkg/platform/tx"
)

//go:embed schema.sql
var Schema string

// Store persists conversations, messages and notifications. Deletes do not
// cascade in SQL; the messaging service removes children first so their
// audit records go in the same transaction.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("migrate messaging: %w", err)
	}
	return nil
}

func (s *Store) SaveConversation(ctx context.Context, c *messaging.Conversation) error {
	ids := make([]string, len(c.Participants))
	for i, p := range c.Participants {
		ids[i] = p.ID.String()
	}
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO conversations (id, title, participant_ids, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			participant_ids = EXCLUDED.participant_ids
	`, c.ID, c.Title, pq.Array(ids), c.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert conversation: %w", err)
	}
	return nil
}

func (s *Store) FindConversation(ctx context.Context, id uuid.UUID) (*messaging.Conversation, error) {
	var (
		c   messaging.Conversation
		ids []string
	)
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT id, title, participant_ids, created_at FROM conversations WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, pq.Array(&ids), &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	c.Participants = make([]reference.Reference, len(ids))
	for i, raw := range ids {
		c.Participants[i] = reference.New(reference.KindUser, reference.ID(raw))
	}
	return &c, nil
}

func (s *Store) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	return s.deleteRow(ctx, "conversations", id)
}

func (s *Store) SaveMessage(ctx context.Context, m *messaging.Message) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, sender_id, body, state_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			body = EXCLUDED.body,
			state_id = EXCLUDED.state_id,
			updated_at = EXCLUDED.updated_at
	`, m.ID, m.ConversationID, m.Sender.ID.String(), m.Body, m.State.ID.String(), m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert message: %w", err)
	}
	return nil
}

const selectMessage = `SELECT id, conversation_id, sender_id, body, state_id, created_at, updated_at FROM messages`

func (s *Store) FindMessage(ctx context.Context, id uuid.UUID) (*messaging.Message, error) {
	return s.findMessage(ctx, selectMessage+` WHERE id = $1`, id)
}

// FindMessageForUpdate locks the message row until the transaction in ctx ends.
func (s *Store) FindMessageForUpdate(ctx context.Context, id uuid.UUID) (*messaging.Message, error) {
	return s.findMessage(ctx, selectMessage+` WHERE id = $1 FOR UPDATE`, id)
}

func (s *Store) findMessage(ctx context.Context, query string, id uuid.UUID) (*messaging.Message, error) {
	m, err := scanMessage(txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find message: %w", err)
	}
	return m, nil
}

func (s *Store) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*messaging.Message, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		selectMessage+` WHERE conversation_id = $1 ORDER BY created_at ASC`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []*messaging.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) DeleteMessage(ctx context.Context, id uuid.UUID) error {
	return s.deleteRow(ctx, "messages", id)
}

func (s *Store) SaveNotification(ctx context.Context, n *messaging.Notification) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO notifications (id, message_id, recipient_id, state_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			state_id = EXCLUDED.state_id,
			updated_at = EXCLUDED.updated_at
	`, n.ID, n.MessageID, n.Recipient.ID.String(), n.State.ID.String(), n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert notification: %w", err)
	}
	return nil
}

const selectNotification = `SELECT id, message_id, recipient_id, state_id, created_at, updated_at FROM notifications`

func (s *Store) FindNotification(ctx context.Context, id uuid.UUID) (*messaging.Notification, error) {
	return s.findNotification(ctx, selectNotification+` WHERE id = $1`, id)
}

// FindNotificationForUpdate locks the notification row until the transaction
// in ctx ends.
func (s *Store) FindNotificationForUpdate(ctx context.Context, id uuid.UUID) (*messaging.Notification, error) {
	return s.findNotification(ctx, selectNotification+` WHERE id = $1 FOR UPDATE`, id)
}

func (s *Store) findNotification(ctx context.Context, query string, id uuid.UUID) (*messaging.Notification, error) {
	n, err := scanNotification(txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find notification: %w", err)
	}
	return n, nil
}

func (s *Store) ListNotifications(ctx context.Context, messageID uuid.UUID) ([]*messaging.Notification, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		selectNotification+` WHERE message_id = $1 ORDER BY created_at ASC`, messageID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*messaging.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	return s.deleteRow(ctx, "notifications", id)
}

func (s *Store) deleteRow(ctx context.Context, table string, id uuid.UUID) error {
	res, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(row scanner) (*messaging.Message, error) {
	var (
		m                 messaging.Message
		senderID, stateID string
	)
	if err := row.Scan(&m.ID, &m.ConversationID, &senderID, &m.Body, &stateID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.Sender = reference.New(reference.KindUser, reference.ID(senderID))
	m.State = reference.New(reference.KindState, reference.ID(stateID))
	return &m, nil
}

func scanNotification(row scanner) (*messaging.Notification, error) {
	var (
		n                    messaging.Notification
		recipientID, stateID string
	)
	if err := row.Scan(&n.ID, &n.MessageID, &recipientID, &stateID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	n.Recipient = reference.New(reference.KindUser, reference.ID(recipientID))
	n.State = reference.New(reference.KindState, reference.ID(stateID))
	return &n, nil
}
