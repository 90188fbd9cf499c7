package tx

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorFrom(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	assert.Same(t, db, ExecutorFrom(ctx, db))
	assert.Equal(t, ctx, WithTx(ctx, nil))

	mock.ExpectBegin()
	sqlTx, err := db.Begin()
	require.NoError(t, err)

	got, ok := From(WithTx(ctx, sqlTx))
	require.True(t, ok)
	assert.Same(t, sqlTx, got)
	assert.Same(t, sqlTx, ExecutorFrom(WithTx(ctx, sqlTx), db))
}
