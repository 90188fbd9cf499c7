package donation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"refguard/internal/reference"
)

// Donation records a gift from a user. Photo is optional.
type Donation struct {
	ID        uuid.UUID           `json:"id"`
	Donor     reference.Reference `json:"donor"`
	Photo     reference.Reference `json:"photo"`
	Amount    int64               `json:"amount"`
	Note      string              `json:"note,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Profile is keyed by the user it describes. Address and Avatar are optional.
type Profile struct {
	User      reference.Reference `json:"user"`
	Address   reference.Reference `json:"address"`
	Avatar    reference.Reference `json:"avatar"`
	Bio       string              `json:"bio,omitempty"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type Team struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Members   []reference.Reference `json:"members"`
	CreatedAt time.Time             `json:"created_at"`
}

type SaveRequest struct {
	DonorID reference.ID
	PhotoID reference.ID
	Amount  int64
	Note    string
}

// Store persists donations, profiles and teams. Lookups return
// sentinel.ErrNotFound for unknown keys.
type Store interface {
	SaveDonation(ctx context.Context, d *Donation) error
	FindDonation(ctx context.Context, id uuid.UUID) (*Donation, error)
	ListByDonor(ctx context.Context, donorID reference.ID) ([]*Donation, error)

	SaveProfile(ctx context.Context, p *Profile) error
	FindProfile(ctx context.Context, userID reference.ID) (*Profile, error)

	SaveTeam(ctx context.Context, t *Team) error
	FindTeam(ctx context.Context, id uuid.UUID) (*Team, error)
}
