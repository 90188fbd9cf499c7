package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"refguard/internal/audit"
	auditmem "refguard/internal/audit/store/memory"
	"refguard/internal/messaging"
	"refguard/internal/messaging/store/memory"
	"refguard/internal/reference"
	"refguard/internal/reference/peer"
	"refguard/internal/reference/validator"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/platform/tx"
)

const (
	stateSent      reference.ID = "1"
	stateDelivered reference.ID = "2"
	stateUnread    reference.ID = "10"
	stateRead      reference.ID = "11"
)

type MessagingSuite struct {
	suite.Suite
	ctx        context.Context
	users      *peer.StaticClient
	store      *memory.InMemoryStore
	auditStore *auditmem.InMemoryStore
	recorder   *audit.Recorder
	service    *messaging.Service
}

func TestMessagingSuite(t *testing.T) {
	suite.Run(t, new(MessagingSuite))
}

func (s *MessagingSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = &peer.StaticClient{EntityKind: reference.KindUser, Descriptors: []reference.Descriptor{
		{Kind: reference.KindUser, ID: "7"},
		{Kind: reference.KindUser, ID: "8"},
	}}
	states := &peer.StaticClient{EntityKind: reference.KindState}
	for _, id := range []reference.ID{stateSent, stateDelivered, stateUnread, stateRead} {
		states.Descriptors = append(states.Descriptors, reference.Descriptor{Kind: reference.KindState, ID: id})
	}
	registry, err := peer.NewRegistry(s.users, states)
	s.Require().NoError(err)

	s.store = memory.NewInMemoryStore()
	s.auditStore = auditmem.NewInMemoryStore()
	s.recorder = audit.NewRecorder(s.auditStore)
	s.service = messaging.NewService(s.store, validator.New(registry), s.recorder, tx.NewMemoryRunner())
}

func (s *MessagingSuite) conversationWithMessage() (*messaging.Conversation, *messaging.Message) {
	c, err := s.service.StartConversation(s.ctx, "lamp repair", "7", "8")
	s.Require().NoError(err)
	m, err := s.service.SendMessage(s.ctx, c.ID, "7", "the lamp is out again", stateSent)
	s.Require().NoError(err)
	return c, m
}

func (s *MessagingSuite) TestStartConversation_UnknownParticipant() {
	_, err := s.service.StartConversation(s.ctx, "x", "7", "999")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "999")
}

func (s *MessagingSuite) TestSendMessage_UserPeerDown() {
	c, err := s.service.StartConversation(s.ctx, "x", "7")
	s.Require().NoError(err)
	s.users.Err = peer.Unreachable(reference.KindUser, errors.New("connection refused"))

	_, err = s.service.SendMessage(s.ctx, c.ID, "7", "hello", stateSent)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))

	msgs, err := s.store.ListMessages(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Empty(msgs)
}

func (s *MessagingSuite) TestSendMessage_UnknownConversation() {
	_, err := s.service.SendMessage(s.ctx, uuid.New(), "7", "hello", stateSent)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *MessagingSuite) TestMarkMessageState_Audited() {
	_, m := s.conversationWithMessage()

	updated, err := s.service.MarkMessageState(s.ctx, m.ID, stateDelivered, "delivered to device")
	s.Require().NoError(err)
	s.Equal(stateDelivered, updated.State.ID)

	history, err := s.recorder.History(s.ctx, audit.MessageParent(m.ID.String()))
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(reference.New(reference.KindState, stateSent), history[0].PriorState)
	s.Equal(audit.ParentMessage, history[0].Parent.Kind())
}

func (s *MessagingSuite) TestMarkNotificationRead_Audited() {
	_, m := s.conversationWithMessage()
	n, err := s.service.Notify(s.ctx, m.ID, "8", stateUnread)
	s.Require().NoError(err)

	_, err = s.service.MarkNotificationRead(s.ctx, n.ID, stateRead, "opened")
	s.Require().NoError(err)

	history, err := s.recorder.History(s.ctx, audit.NotificationParent(n.ID.String()))
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(reference.New(reference.KindState, stateRead), history[0].NewState)

	messageHistory, err := s.recorder.History(s.ctx, audit.MessageParent(n.ID.String()))
	s.Require().NoError(err)
	s.Empty(messageHistory)
}

func (s *MessagingSuite) TestMarkNotificationRead_UnknownState() {
	_, m := s.conversationWithMessage()
	n, err := s.service.Notify(s.ctx, m.ID, "8", stateUnread)
	s.Require().NoError(err)

	_, err = s.service.MarkNotificationRead(s.ctx, n.ID, "404", "")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Zero(s.auditStore.Count())
}

func (s *MessagingSuite) TestDeleteConversation_Cascades() {
	c, m := s.conversationWithMessage()
	n, err := s.service.Notify(s.ctx, m.ID, "8", stateUnread)
	s.Require().NoError(err)
	_, err = s.service.MarkMessageState(s.ctx, m.ID, stateDelivered, "")
	s.Require().NoError(err)
	_, err = s.service.MarkNotificationRead(s.ctx, n.ID, stateRead, "")
	s.Require().NoError(err)

	keepConv, keepMsg := s.conversationWithMessage()
	_, err = s.service.MarkMessageState(s.ctx, keepMsg.ID, stateDelivered, "")
	s.Require().NoError(err)
	s.Equal(3, s.auditStore.Count())

	s.users.Err = peer.Unreachable(reference.KindUser, errors.New("down"))
	s.Require().NoError(s.service.DeleteConversation(s.ctx, c.ID))

	_, err = s.store.FindMessage(s.ctx, m.ID)
	s.Error(err)
	_, err = s.store.FindNotification(s.ctx, n.ID)
	s.Error(err)
	s.Equal(1, s.auditStore.Count())

	_, err = s.store.FindConversation(s.ctx, keepConv.ID)
	s.NoError(err)
}

func (s *MessagingSuite) TestDeleteConversation_Unknown() {
	err := s.service.DeleteConversation(s.ctx, uuid.New())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
