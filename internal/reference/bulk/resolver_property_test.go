//go:build property

package bulk

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"refguard/internal/reference"
	"refguard/internal/reference/peer"
)

// Property: ResolveMany returns exactly count non-null references for any
// peer state (empty, partial with null ids, full, unavailable).
func TestResolveManyNeverReturnsNull(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("exactly count non-null entries", prop.ForAll(
		func(ids []int64, nullEvery int, down bool, count int) bool {
			client := &peer.StaticClient{EntityKind: reference.KindState}
			if down {
				client.Err = peer.Unreachable(reference.KindState, errors.New("down"))
			}
			for i, n := range ids {
				d := reference.Descriptor{ID: reference.IntID(n)}
				if nullEvery > 0 && i%nullEvery == 0 {
					d.ID = ""
				}
				client.Descriptors = append(client.Descriptors, d)
			}
			registry, err := peer.NewRegistry(client)
			if err != nil {
				return false
			}

			refs := New(registry).ResolveMany(context.Background(), reference.KindState, count)
			if len(refs) != count {
				return false
			}
			for _, ref := range refs {
				if ref.IsZero() || ref.Kind != reference.KindState {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(1, 1000)),
		gen.IntRange(0, 4),
		gen.Bool(),
		gen.IntRange(0, 64),
	))

	properties.TestingRun(t)
}
