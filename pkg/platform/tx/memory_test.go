package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRunner(t *testing.T) {
	ctx := context.Background()
	runner := NewMemoryRunner()

	t.Run("commit keeps writes", func(t *testing.T) {
		state := []string{}
		err := runner.RunInTx(ctx, func(ctx context.Context) error {
			j, ok := JournalFrom(ctx)
			require.True(t, ok)
			state = append(state, "a")
			j.Record(func() { state = state[:len(state)-1] })
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, state)
	})

	t.Run("error undoes writes in reverse order", func(t *testing.T) {
		var undone []string
		boom := errors.New("boom")
		err := runner.RunInTx(ctx, func(ctx context.Context) error {
			j, _ := JournalFrom(ctx)
			j.Record(func() { undone = append(undone, "first") })
			j.Record(func() { undone = append(undone, "second") })
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, []string{"second", "first"}, undone)
	})

	t.Run("nested call joins the outer unit of work", func(t *testing.T) {
		undone := 0
		err := runner.RunInTx(ctx, func(ctx context.Context) error {
			inner := runner.RunInTx(ctx, func(ctx context.Context) error {
				j, _ := JournalFrom(ctx)
				j.Record(func() { undone++ })
				return nil
			})
			require.NoError(t, inner)
			return errors.New("outer failed")
		})
		assert.Error(t, err)
		assert.Equal(t, 1, undone)
	})

	t.Run("cancelled context never runs fn", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		called := false
		err := runner.RunInTx(cctx, func(context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called)
	})
}
