package peer

import (
	"context"

	"refguard/internal/reference"
)

// StaticClient serves a fixed set of descriptors. It backs local development
// without peers and tests that need a deterministic peer. When Err is set,
// every call fails with it.
type StaticClient struct {
	EntityKind  reference.Kind
	Descriptors []reference.Descriptor
	Err         error
}

func (s *StaticClient) Kind() reference.Kind { return s.EntityKind }

func (s *StaticClient) FetchOne(_ context.Context, id reference.ID) (reference.Descriptor, bool, error) {
	if id.IsZero() {
		return reference.Descriptor{}, false, reference.ErrMissingID
	}
	if s.Err != nil {
		return reference.Descriptor{}, false, s.Err
	}
	for _, d := range s.Descriptors {
		if d.ID == id {
			return d, true, nil
		}
	}
	return reference.Descriptor{}, false, nil
}

func (s *StaticClient) FetchAll(_ context.Context) ([]reference.Descriptor, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]reference.Descriptor(nil), s.Descriptors...), nil
}

// Unreachable builds the error a peer client reports when the peer refuses
// connections. Useful for wiring StaticClient as a down peer.
func Unreachable(kind reference.Kind, cause error) error {
	return newError(CategoryOutage, kind, "call", "transport failure", cause)
}
