package messaging

import (
	"context"
	"time"

	"github.com/google/uuid"

	"refguard/internal/reference"
)

type Conversation struct {
	ID           uuid.UUID
	Title        string
	Participants []reference.Reference
	CreatedAt    time.Time
}

// Message carries its delivery status as a reference to the state service.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	Sender         reference.Reference
	Body           string
	State          reference.Reference
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Notification struct {
	ID        uuid.UUID
	MessageID uuid.UUID
	Recipient reference.Reference
	State     reference.Reference
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store persists conversations, messages and notifications. Lookups return
// sentinel.ErrNotFound for unknown ids. The ForUpdate lookups hold the row
// until the surrounding unit of work ends so concurrent state changes chain.
type Store interface {
	SaveConversation(ctx context.Context, c *Conversation) error
	FindConversation(ctx context.Context, id uuid.UUID) (*Conversation, error)
	DeleteConversation(ctx context.Context, id uuid.UUID) error

	SaveMessage(ctx context.Context, m *Message) error
	FindMessage(ctx context.Context, id uuid.UUID) (*Message, error)
	FindMessageForUpdate(ctx context.Context, id uuid.UUID) (*Message, error)
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*Message, error)
	DeleteMessage(ctx context.Context, id uuid.UUID) error

	SaveNotification(ctx context.Context, n *Notification) error
	FindNotification(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindNotificationForUpdate(ctx context.Context, id uuid.UUID) (*Notification, error)
	ListNotifications(ctx context.Context, messageID uuid.UUID) ([]*Notification, error)
	DeleteNotification(ctx context.Context, id uuid.UUID) error
}
