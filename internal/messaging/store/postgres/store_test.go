package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refguard/internal/messaging"
	"refguard/internal/reference"
	"refguard/pkg/platform/sentinel"
	txcontext "refguard/pkg/platform/tx"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestSaveConversation_StoresParticipantIDs(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := &messaging.Conversation{
		ID:    uuid.New(),
		Title: "lamp repair",
		Participants: []reference.Reference{
			reference.New(reference.KindUser, "7"),
			reference.New(reference.KindUser, "8"),
		},
		CreatedAt: at,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO conversations")).
		WithArgs(c.ID, "lamp repair", pq.Array([]string{"7", "8"}), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.SaveConversation(context.Background(), c))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindMessageForUpdate_LocksRowInsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := New(db)
	id, conversation := uuid.New(), uuid.New()
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM messages WHERE id = $1 FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "conversation_id", "sender_id", "body", "state_id", "created_at", "updated_at"}).
			AddRow(id.String(), conversation.String(), "7", "the lamp is out", "1", at, at))
	mock.ExpectCommit()

	sqlTx, err := db.Begin()
	require.NoError(t, err)
	m, err := store.FindMessageForUpdate(txcontext.WithTx(context.Background(), sqlTx), id)
	require.NoError(t, err)
	assert.Equal(t, conversation, m.ConversationID)
	assert.Equal(t, reference.New(reference.KindUser, "7"), m.Sender)
	assert.Equal(t, reference.New(reference.KindState, "1"), m.State)
	require.NoError(t, sqlTx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindNotificationForUpdate_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications WHERE id = $1 FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "message_id", "recipient_id", "state_id", "created_at", "updated_at"}))

	_, err := store.FindNotificationForUpdate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestDeleteMessage_UnknownID(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM messages WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, store.DeleteMessage(context.Background(), id), sentinel.ErrNotFound)
}
