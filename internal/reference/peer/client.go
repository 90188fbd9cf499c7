// Package peer implements the remote entity clients: one client per remote
// entity kind, each able to fetch a single entity or list all of them.
package peer

import (
	"context"
	"fmt"
	"sort"

	"refguard/internal/reference"
)

// Client fetches entities of one kind from the peer service that owns them.
//
// FetchOne returns found=false with a nil error when the peer reports the
// entity absent. Any other failure is an *Error.
//
// FetchAll has no partial-success mode: any failure is an *Error and no
// descriptors are returned.
type Client interface {
	Kind() reference.Kind
	FetchOne(ctx context.Context, id reference.ID) (reference.Descriptor, bool, error)
	FetchAll(ctx context.Context) ([]reference.Descriptor, error)
}

// Outcome classifies a FetchOne result.
type Outcome string

const (
	OutcomeFound       Outcome = "found"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeUnavailable Outcome = "unavailable"
)

// Classify maps a FetchOne result onto its outcome.
func Classify(found bool, err error) Outcome {
	switch {
	case err != nil:
		return OutcomeUnavailable
	case found:
		return OutcomeFound
	default:
		return OutcomeNotFound
	}
}

// Registry selects a client by kind. It is populated at startup and read-only
// afterwards.
type Registry struct {
	clients map[reference.Kind]Client
}

// NewRegistry builds a registry from clients, rejecting duplicate kinds.
func NewRegistry(clients ...Client) (*Registry, error) {
	r := &Registry{clients: make(map[reference.Kind]Client, len(clients))}
	for _, c := range clients {
		if err := r.register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(c Client) error {
	kind := c.Kind()
	if kind == "" {
		return fmt.Errorf("peer client has no kind")
	}
	if _, exists := r.clients[kind]; exists {
		return fmt.Errorf("peer client for kind %s already registered", kind)
	}
	r.clients[kind] = c
	return nil
}

// Get returns the client for kind.
func (r *Registry) Get(kind reference.Kind) (Client, error) {
	c, ok := r.clients[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return c, nil
}

// Kinds lists registered kinds in sorted order.
func (r *Registry) Kinds() []reference.Kind {
	kinds := make([]reference.Kind, 0, len(r.clients))
	for k := range r.clients {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
