package donation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"refguard/internal/reference"
	"refguard/internal/reference/bulk"
	"refguard/internal/seed"
	"refguard/pkg/requestcontext"
)

// Planner resolves remote references for many local slots at once.
type Planner interface {
	ResolvePlan(ctx context.Context, plan map[reference.Kind]int) (bulk.Assignment, error)
}

// Seeder creates sample donations for development environments. Like the
// incident seeder it accepts synthetic references for peers that are down.
type Seeder struct {
	store   Store
	planner Planner
	gen     *seed.Generator
	logger  *slog.Logger
}

func NewSeeder(store Store, planner Planner, gen *seed.Generator, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: store, planner: planner, gen: gen, logger: logger}
}

// Seed persists n donations. Roughly one in four carries no photo.
func (s *Seeder) Seed(ctx context.Context, n int) ([]*Donation, map[reference.Kind]bulk.Report, error) {
	if n <= 0 {
		return nil, nil, nil
	}
	assignment, err := s.planner.ResolvePlan(ctx, map[reference.Kind]int{
		reference.KindUser:  n,
		reference.KindPhoto: n,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("resolve seed references: %w", err)
	}

	now := requestcontext.Now(ctx)
	donations := make([]*Donation, n)
	for i := range n {
		d := &Donation{
			ID:        uuid.New(),
			Donor:     assignment.At(reference.KindUser, i),
			Amount:    s.gen.Amount(100, 50_000),
			Note:      s.gen.Title(),
			CreatedAt: now,
		}
		if s.gen.Intn(4) != 0 {
			d.Photo = assignment.At(reference.KindPhoto, i)
		}
		if err := s.store.SaveDonation(ctx, d); err != nil {
			return nil, nil, fmt.Errorf("save seeded donation: %w", err)
		}
		donations[i] = d
	}

	for kind, report := range assignment.Reports {
		if report.Degraded() {
			s.logger.WarnContext(ctx, "seeded donations with synthetic references",
				"kind", kind,
				"fallbacks", report.Fallbacks,
				"requested", report.Requested,
			)
		}
	}
	return donations, assignment.Reports, nil
}
