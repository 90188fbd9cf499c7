package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"refguard/internal/messaging"
	"refguard/internal/reference"
	"refguard/pkg/platform/httputil"
)

type MessagingService interface {
	StartConversation(ctx context.Context, title string, participantIDs ...reference.ID) (*messaging.Conversation, error)
	SendMessage(ctx context.Context, conversationID uuid.UUID, senderID reference.ID, body string, stateID reference.ID) (*messaging.Message, error)
	Notify(ctx context.Context, messageID uuid.UUID, recipientID reference.ID, stateID reference.ID) (*messaging.Notification, error)
	MarkMessageState(ctx context.Context, messageID uuid.UUID, stateID reference.ID, detail string) (*messaging.Message, error)
	MarkNotificationRead(ctx context.Context, notificationID uuid.UUID, readState reference.ID, detail string) (*messaging.Notification, error)
	DeleteConversation(ctx context.Context, conversationID uuid.UUID) error
}

type MessagingHandler struct {
	service MessagingService
	logger  *slog.Logger
}

func NewMessagingHandler(service MessagingService, logger *slog.Logger) *MessagingHandler {
	return &MessagingHandler{service: service, logger: logger}
}

func (h *MessagingHandler) Register(r chi.Router) {
	r.Post("/conversations", h.HandleStartConversation)
	r.Delete("/conversations/{id}", h.HandleDeleteConversation)
	r.Post("/conversations/{id}/messages", h.HandleSendMessage)
	r.Put("/messages/{id}/state", h.HandleMarkMessageState)
	r.Post("/messages/{id}/notifications", h.HandleNotify)
	r.Put("/notifications/{id}/read", h.HandleMarkRead)
}

type startConversationRequest struct {
	Title          string         `json:"title"`
	ParticipantIDs []reference.ID `json:"participant_ids"`
}

type sendMessageRequest struct {
	SenderID reference.ID `json:"sender_id"`
	Body     string       `json:"body"`
	StateID  reference.ID `json:"state_id"`
}

type notifyRequest struct {
	RecipientID reference.ID `json:"recipient_id"`
	StateID     reference.ID `json:"state_id"`
}

type conversationResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title,omitempty"`
	Participants []reference.Reference `json:"participants"`
	CreatedAt    time.Time             `json:"created_at"`
}

type messageResponse struct {
	ID             string              `json:"id"`
	ConversationID string              `json:"conversation_id"`
	Sender         reference.Reference `json:"sender"`
	Body           string              `json:"body"`
	State          reference.Reference `json:"state"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type notificationResponse struct {
	ID        string              `json:"id"`
	MessageID string              `json:"message_id"`
	Recipient reference.Reference `json:"recipient"`
	State     reference.Reference `json:"state"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func toMessageResponse(m *messaging.Message) messageResponse {
	return messageResponse{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID.String(),
		Sender:         m.Sender,
		Body:           m.Body,
		State:          m.State,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toNotificationResponse(n *messaging.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID.String(),
		MessageID: n.MessageID.String(),
		Recipient: n.Recipient,
		State:     n.State,
		UpdatedAt: n.UpdatedAt,
	}
}

// HandleStartConversation handles POST /v1/conversations.
func (h *MessagingHandler) HandleStartConversation(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.StartConversation(r.Context(), req.Title, req.ParticipantIDs...)
	if err != nil {
		h.logger.WarnContext(r.Context(), "start conversation failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, conversationResponse{
		ID:           c.ID.String(),
		Title:        c.Title,
		Participants: c.Participants,
		CreatedAt:    c.CreatedAt,
	})
}

// HandleDeleteConversation handles DELETE /v1/conversations/{id}.
func (h *MessagingHandler) HandleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if err := h.service.DeleteConversation(r.Context(), id); err != nil {
		h.logger.WarnContext(r.Context(), "delete conversation failed", "conversation_id", id, "error", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSendMessage handles POST /v1/conversations/{id}/messages.
func (h *MessagingHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req sendMessageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	m, err := h.service.SendMessage(r.Context(), id, req.SenderID, req.Body, req.StateID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "send message failed", "conversation_id", id, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toMessageResponse(m))
}

// HandleMarkMessageState handles PUT /v1/messages/{id}/state.
func (h *MessagingHandler) HandleMarkMessageState(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req changeStateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	m, err := h.service.MarkMessageState(r.Context(), id, req.StateID, req.Detail)
	if err != nil {
		h.logger.WarnContext(r.Context(), "mark message state failed", "message_id", id, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toMessageResponse(m))
}

// HandleNotify handles POST /v1/messages/{id}/notifications.
func (h *MessagingHandler) HandleNotify(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req notifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	n, err := h.service.Notify(r.Context(), id, req.RecipientID, req.StateID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "notify failed", "message_id", id, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toNotificationResponse(n))
}

// HandleMarkRead handles PUT /v1/notifications/{id}/read.
func (h *MessagingHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req changeStateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	n, err := h.service.MarkNotificationRead(r.Context(), id, req.StateID, req.Detail)
	if err != nil {
		h.logger.WarnContext(r.Context(), "mark notification read failed", "notification_id", id, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNotificationResponse(n))
}
