package incident

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"refguard/internal/reference"
	"refguard/internal/reference/bulk"
	"refguard/internal/seed"
	"refguard/pkg/platform/tx"
	"refguard/pkg/requestcontext"
)

// Planner resolves remote references for many local slots at once.
type Planner interface {
	ResolvePlan(ctx context.Context, plan map[reference.Kind]int) (bulk.Assignment, error)
}

// Seeder creates sample incidents for development environments. It tolerates
// down peers by accepting synthetic references from the planner, so it must
// never run against production data.
type Seeder struct {
	store   Store
	planner Planner
	tx      tx.Runner
	gen     *seed.Generator
	logger  *slog.Logger
}

func NewSeeder(store Store, planner Planner, runner tx.Runner, gen *seed.Generator, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: store, planner: planner, tx: runner, gen: gen, logger: logger}
}

// Seed persists n incidents in one unit of work and returns them with the
// per-kind resolution reports.
func (s *Seeder) Seed(ctx context.Context, n int) ([]*Incident, map[reference.Kind]bulk.Report, error) {
	if n <= 0 {
		return nil, nil, nil
	}
	plan := map[reference.Kind]int{
		reference.KindState:   n,
		reference.KindAddress: n,
		reference.KindUser:    n,
	}
	assignment, err := s.planner.ResolvePlan(ctx, plan)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve seed references: %w", err)
	}

	now := requestcontext.Now(ctx)
	incidents := make([]*Incident, n)
	for i := range n {
		incidents[i] = &Incident{
			ID:          uuid.New(),
			Title:       s.gen.Title(),
			Description: s.gen.Sentence(2),
			State:       assignment.At(reference.KindState, i),
			Address:     assignment.At(reference.KindAddress, i),
			Reporter:    assignment.At(reference.KindUser, i),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, inc := range incidents {
			if err := s.store.Save(ctx, inc); err != nil {
				return fmt.Errorf("save seeded incident: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for kind, report := range assignment.Reports {
		if report.Degraded() {
			s.logger.WarnContext(ctx, "seeded with synthetic references",
				"kind", kind,
				"fallbacks", report.Fallbacks,
				"requested", report.Requested,
			)
		}
	}
	return incidents, assignment.Reports, nil
}
