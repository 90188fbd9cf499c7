package incident

import (
	"context"
	"time"

	"github.com/google/uuid"

	"refguard/internal/reference"
)

// Incident is a locally owned report. State, Address and Reporter live in
// peer services and are held here only as references.
type Incident struct {
	ID          uuid.UUID
	Title       string
	Description string
	State       reference.Reference
	// Address is optional.
	Address   reference.Reference
	Reporter  reference.Reference
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateRequest carries the caller-supplied fields of a new incident.
type CreateRequest struct {
	Title       string
	Description string
	StateID     reference.ID
	AddressID   reference.ID
	ReporterID  reference.ID
}

// Store persists incidents. FindByID and FindForUpdate return
// sentinel.ErrNotFound for an unknown id.
type Store interface {
	Save(ctx context.Context, incident *Incident) error
	FindByID(ctx context.Context, id uuid.UUID) (*Incident, error)
	// FindForUpdate reads an incident and holds it against concurrent
	// transitions until the surrounding unit of work ends.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*Incident, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*Incident, error)
}
