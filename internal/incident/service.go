package incident

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"refguard/internal/audit"
	"refguard/internal/reference"
	"refguard/internal/reference/validator"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/platform/sentinel"
	"refguard/pkg/platform/tx"
	"refguard/pkg/requestcontext"
)

// ReferenceValidator checks references against their owning peers.
type ReferenceValidator interface {
	Validate(ctx context.Context, ref reference.Reference) error
	ValidateAll(ctx context.Context, refs ...reference.Reference) error
}

// AuditRecorder appends and reads state transitions.
type AuditRecorder interface {
	Record(ctx context.Context, parent audit.Parent, prior, next reference.Reference, detail string) (audit.Record, error)
	History(ctx context.Context, parent audit.Parent) ([]audit.Record, error)
	Purge(ctx context.Context, parent audit.Parent) (int, error)
}

// Service owns the incident write path. Every reference is validated before
// anything is persisted, and state changes commit together with their audit
// record.
type Service struct {
	store     Store
	validator ReferenceValidator
	recorder  AuditRecorder
	tx        tx.Runner
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(store Store, v ReferenceValidator, recorder AuditRecorder, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		store:     store,
		validator: v,
		recorder:  recorder,
		tx:        runner,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Incident, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "title is required")
	}

	now := requestcontext.Now(ctx)
	inc := &Incident{
		ID:          uuid.New(),
		Title:       title,
		Description: req.Description,
		State:       reference.New(reference.KindState, req.StateID),
		Address:     reference.New(reference.KindAddress, req.AddressID),
		Reporter:    reference.New(reference.KindUser, req.ReporterID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	refs := []reference.Reference{inc.State, inc.Reporter}
	if !inc.Address.IsZero() {
		refs = append(refs, inc.Address)
	}
	if err := s.validator.ValidateAll(ctx, refs...); err != nil {
		return nil, validator.ToDomainError(err)
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.store.Save(ctx, inc)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save incident")
	}
	s.logger.InfoContext(ctx, "incident created", "incident_id", inc.ID, "state", inc.State)
	return inc, nil
}

// ChangeState moves an incident to newState and records the transition.
// Setting the current state again is a no-op and is not audited.
func (s *Service) ChangeState(ctx context.Context, id uuid.UUID, newState reference.ID, detail string) (*Incident, error) {
	next := reference.New(reference.KindState, newState)
	if err := s.validator.Validate(ctx, next); err != nil {
		return nil, validator.ToDomainError(err)
	}

	var updated *Incident
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		inc, err := s.lock(ctx, id)
		if err != nil {
			return err
		}
		prior := inc.State
		if prior == next {
			updated = inc
			return nil
		}

		inc.State = next
		inc.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.Save(ctx, inc); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save incident")
		}
		if _, err := s.recorder.Record(ctx, audit.IncidentParent(id.String()), prior, next, detail); err != nil {
			return err
		}
		updated = inc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns one incident.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Incident, error) {
	return s.find(ctx, id)
}

// List returns every incident, oldest first.
func (s *Service) List(ctx context.Context) ([]*Incident, error) {
	incidents, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list incidents")
	}
	return incidents, nil
}

// History returns the audited state transitions of an incident, oldest first.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]audit.Record, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	return s.recorder.History(ctx, audit.IncidentParent(id.String()))
}

// Delete removes an incident and its audit trail. Remote entities it
// references are never touched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.lock(ctx, id); err != nil {
			return err
		}
		purged, err := s.recorder.Purge(ctx, audit.IncidentParent(id.String()))
		if err != nil {
			return err
		}
		if err := s.store.Delete(ctx, id); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete incident")
		}
		s.logger.InfoContext(ctx, "incident deleted", "incident_id", id, "audit_records", purged)
		return nil
	})
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*Incident, error) {
	return loaded(s.store.FindByID(ctx, id))
}

// lock reads the incident for a transition so that the prior state recorded
// in the audit trail is the state the transition actually replaced.
func (s *Service) lock(ctx context.Context, id uuid.UUID) (*Incident, error) {
	return loaded(s.store.FindForUpdate(ctx, id))
}

func loaded(inc *Incident, err error) (*Incident, error) {
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "incident not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load incident")
	}
	return inc, nil
}
