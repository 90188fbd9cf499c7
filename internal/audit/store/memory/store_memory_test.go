package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refguard/internal/audit"
	"refguard/internal/reference"
	"refguard/pkg/platform/tx"
)

func record(parent audit.Parent) audit.Record {
	return audit.Record{
		ID:         uuid.New(),
		CreatedAt:  time.Now(),
		PriorState: reference.New(reference.KindState, "1"),
		NewState:   reference.New(reference.KindState, "2"),
		Parent:     parent,
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("append and list by parent", func(t *testing.T) {
		s := NewInMemoryStore()
		require.NoError(t, s.Append(ctx, record(audit.IncidentParent("a"))))
		require.NoError(t, s.Append(ctx, record(audit.IncidentParent("b"))))

		recs, err := s.ListByParent(ctx, audit.IncidentParent("a"))
		require.NoError(t, err)
		assert.Len(t, recs, 1)
		assert.Equal(t, 2, s.Count())
	})

	t.Run("failed unit of work removes the append", func(t *testing.T) {
		s := NewInMemoryStore()
		keep := record(audit.IncidentParent("a"))
		require.NoError(t, s.Append(ctx, keep))

		err := tx.NewMemoryRunner().RunInTx(ctx, func(ctx context.Context) error {
			require.NoError(t, s.Append(ctx, record(audit.IncidentParent("a"))))
			return errors.New("state change failed")
		})
		require.Error(t, err)

		recs, _ := s.ListByParent(ctx, audit.IncidentParent("a"))
		require.Len(t, recs, 1)
		assert.Equal(t, keep.ID, recs[0].ID)
	})

	t.Run("failed unit of work restores cascaded deletes", func(t *testing.T) {
		s := NewInMemoryStore()
		require.NoError(t, s.Append(ctx, record(audit.MessageParent("m"))))

		err := tx.NewMemoryRunner().RunInTx(ctx, func(ctx context.Context) error {
			n, err := s.DeleteByParent(ctx, audit.MessageParent("m"))
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			return errors.New("abort")
		})
		require.Error(t, err)
		assert.Equal(t, 1, s.Count())
	})
}
