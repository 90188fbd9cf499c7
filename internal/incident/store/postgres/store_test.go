package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refguard/internal/incident"
	"refguard/internal/reference"
	"refguard/pkg/platform/sentinel"
	txcontext "refguard/pkg/platform/tx"
)

var columns = []string{
	"id", "title", "description",
	"state_id", "state_fallback",
	"address_id", "address_fallback",
	"reporter_id", "reporter_fallback",
	"created_at", "updated_at",
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestSave(t *testing.T) {
	store, mock := newMockStore(t)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	inc := &incident.Incident{
		ID:        uuid.New(),
		Title:     "leaking drain",
		State:     reference.Reference{Kind: reference.KindState, ID: "900000", Fallback: true},
		Reporter:  reference.New(reference.KindUser, "7"),
		CreatedAt: at,
		UpdatedAt: at,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO incidents")).
		WithArgs(inc.ID, "leaking drain", "",
			"900000", true,
			sql.NullString{}, false,
			"7", false,
			at, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Save(context.Background(), inc))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM incidents")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "noisy park", "", "3", false, "11", false, "7", false, at, at))

	inc, err := store.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, reference.New(reference.KindState, "3"), inc.State)
	assert.Equal(t, reference.New(reference.KindAddress, "11"), inc.Address)
	assert.Equal(t, reference.New(reference.KindUser, "7"), inc.Reporter)
}

func TestFindForUpdate_LocksRowInsideTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := New(db)
	id := uuid.New()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 FOR UPDATE")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "noisy park", "", "1", false, nil, false, "7", false, at, at))
	mock.ExpectCommit()

	sqlTx, err := db.Begin()
	require.NoError(t, err)
	inc, err := store.FindForUpdate(txcontext.WithTx(context.Background(), sqlTx), id)
	require.NoError(t, err)
	assert.Equal(t, reference.New(reference.KindState, "1"), inc.State)
	require.NoError(t, sqlTx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindForUpdate_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := store.FindForUpdate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestFindByID_NotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM incidents")).
		WillReturnRows(sqlmock.NewRows(columns))

	_, err := store.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestFindByID_NullAddress(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM incidents")).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(id.String(), "t", "", "1", false, nil, false, "7", false, time.Now(), time.Now()))

	inc, err := store.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, inc.Address.IsZero())
}

func TestDelete(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM incidents")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, store.Delete(context.Background(), id), sentinel.ErrNotFound)
}
