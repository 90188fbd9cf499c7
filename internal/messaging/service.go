package messaging

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"refguard/internal/audit"
	"refguard/internal/reference"
	"refguard/internal/reference/validator"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/platform/sentinel"
	platformstrings "refguard/pkg/platform/strings"
	"refguard/pkg/platform/tx"
	"refguard/pkg/requestcontext"
)

type ReferenceValidator interface {
	Validate(ctx context.Context, ref reference.Reference) error
	ValidateAll(ctx context.Context, refs ...reference.Reference) error
}

type AuditRecorder interface {
	Record(ctx context.Context, parent audit.Parent, prior, next reference.Reference, detail string) (audit.Record, error)
	Purge(ctx context.Context, parent audit.Parent) (int, error)
}

// Service handles conversations, messages and their notifications.
type Service struct {
	store     Store
	validator ReferenceValidator
	recorder  AuditRecorder
	tx        tx.Runner
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(store Store, v ReferenceValidator, recorder AuditRecorder, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		store:     store,
		validator: v,
		recorder:  recorder,
		tx:        runner,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartConversation opens a conversation between existing users.
func (s *Service) StartConversation(ctx context.Context, title string, participantIDs ...reference.ID) (*Conversation, error) {
	participantIDs = platformstrings.DedupeAndTrim(participantIDs)
	if len(participantIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "a conversation needs at least one participant")
	}
	participants := make([]reference.Reference, len(participantIDs))
	for i, id := range participantIDs {
		participants[i] = reference.New(reference.KindUser, id)
	}
	if err := s.validator.ValidateAll(ctx, participants...); err != nil {
		return nil, validator.ToDomainError(err)
	}

	c := &Conversation{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(title),
		Participants: participants,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.tx.RunInTx(ctx, func(ctx context.Context) error { return s.store.SaveConversation(ctx, c) }); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save conversation")
	}
	return c, nil
}

// SendMessage posts a message with an initial delivery state.
func (s *Service) SendMessage(ctx context.Context, conversationID uuid.UUID, senderID reference.ID, body string, stateID reference.ID) (*Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "message body is required")
	}
	sender := reference.New(reference.KindUser, senderID)
	state := reference.New(reference.KindState, stateID)
	if err := s.validator.ValidateAll(ctx, sender, state); err != nil {
		return nil, validator.ToDomainError(err)
	}

	now := requestcontext.Now(ctx)
	m := &Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Sender:         sender,
		Body:           body,
		State:          state,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.FindConversation(ctx, conversationID); err != nil {
			return notFound(err, "conversation")
		}
		if err := s.store.SaveMessage(ctx, m); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save message")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Notify creates a notification about a message for one recipient.
func (s *Service) Notify(ctx context.Context, messageID uuid.UUID, recipientID reference.ID, stateID reference.ID) (*Notification, error) {
	recipient := reference.New(reference.KindUser, recipientID)
	state := reference.New(reference.KindState, stateID)
	if err := s.validator.ValidateAll(ctx, recipient, state); err != nil {
		return nil, validator.ToDomainError(err)
	}

	now := requestcontext.Now(ctx)
	n := &Notification{
		ID:        uuid.New(),
		MessageID: messageID,
		Recipient: recipient,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.FindMessage(ctx, messageID); err != nil {
			return notFound(err, "message")
		}
		if err := s.store.SaveNotification(ctx, n); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save notification")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// MarkMessageState moves a message to a new delivery state and audits it.
func (s *Service) MarkMessageState(ctx context.Context, messageID uuid.UUID, stateID reference.ID, detail string) (*Message, error) {
	next := reference.New(reference.KindState, stateID)
	if err := s.validator.Validate(ctx, next); err != nil {
		return nil, validator.ToDomainError(err)
	}

	var out *Message
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		m, err := s.store.FindMessageForUpdate(ctx, messageID)
		if err != nil {
			return notFound(err, "message")
		}
		prior := m.State
		out = m
		if prior == next {
			return nil
		}
		m.State = next
		m.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.SaveMessage(ctx, m); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save message")
		}
		_, err = s.recorder.Record(ctx, audit.MessageParent(m.ID.String()), prior, next, detail)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkNotificationRead moves a notification to readState and audits it.
func (s *Service) MarkNotificationRead(ctx context.Context, notificationID uuid.UUID, readState reference.ID, detail string) (*Notification, error) {
	next := reference.New(reference.KindState, readState)
	if err := s.validator.Validate(ctx, next); err != nil {
		return nil, validator.ToDomainError(err)
	}

	var out *Notification
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		n, err := s.store.FindNotificationForUpdate(ctx, notificationID)
		if err != nil {
			return notFound(err, "notification")
		}
		prior := n.State
		out = n
		if prior == next {
			return nil
		}
		n.State = next
		n.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.SaveNotification(ctx, n); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save notification")
		}
		_, err = s.recorder.Record(ctx, audit.NotificationParent(n.ID.String()), prior, next, detail)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteConversation removes a conversation with its messages, their
// notifications and every audit record attached to them. Remote users and
// states are not touched.
func (s *Service) DeleteConversation(ctx context.Context, conversationID uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.FindConversation(ctx, conversationID); err != nil {
			return notFound(err, "conversation")
		}
		messages, err := s.store.ListMessages(ctx, conversationID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list messages")
		}

		purged := 0
		for _, m := range messages {
			notifications, err := s.store.ListNotifications(ctx, m.ID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
			}
			for _, n := range notifications {
				count, err := s.recorder.Purge(ctx, audit.NotificationParent(n.ID.String()))
				if err != nil {
					return err
				}
				purged += count
				if err := s.store.DeleteNotification(ctx, n.ID); err != nil {
					return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete notification")
				}
			}
			count, err := s.recorder.Purge(ctx, audit.MessageParent(m.ID.String()))
			if err != nil {
				return err
			}
			purged += count
			if err := s.store.DeleteMessage(ctx, m.ID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete message")
			}
		}

		if err := s.store.DeleteConversation(ctx, conversationID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete conversation")
		}
		s.logger.InfoContext(ctx, "conversation deleted",
			"conversation_id", conversationID,
			"messages", len(messages),
			"audit_records", purged,
		)
		return nil
	})
}

func notFound(err error, entity string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, entity+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+entity)
}
