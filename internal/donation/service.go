package donation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"refguard/internal/reference"
	"refguard/internal/reference/validator"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/platform/sentinel"
	platformstrings "refguard/pkg/platform/strings"
	"refguard/pkg/requestcontext"
)

type ReferenceValidator interface {
	ValidateAll(ctx context.Context, refs ...reference.Reference) error
}

// Service stores donations, profiles and teams after checking every
// reference with its owning peer. Nothing is written when a reference is
// rejected or cannot be verified.
type Service struct {
	store     Store
	validator ReferenceValidator
	logger    *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(store Store, v ReferenceValidator, opts ...Option) *Service {
	s := &Service{store: store, validator: v, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save validates the donor and, when set, the photo, then persists the donation.
func (s *Service) Save(ctx context.Context, req SaveRequest) (*Donation, error) {
	if req.Amount <= 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "amount must be positive")
	}
	d := &Donation{
		ID:        uuid.New(),
		Donor:     reference.New(reference.KindUser, req.DonorID),
		Photo:     reference.New(reference.KindPhoto, req.PhotoID),
		Amount:    req.Amount,
		Note:      req.Note,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.validator.ValidateAll(ctx, withOptional(d.Donor, d.Photo)...); err != nil {
		s.logger.InfoContext(ctx, "donation refused", "donor", d.Donor, "result", validator.Result(err))
		return nil, validator.ToDomainError(err)
	}
	if err := s.store.SaveDonation(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save donation")
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Donation, error) {
	d, err := s.store.FindDonation(ctx, id)
	if err != nil {
		return nil, lookupError(err, "donation")
	}
	return d, nil
}

func (s *Service) ListByDonor(ctx context.Context, donorID reference.ID) ([]*Donation, error) {
	out, err := s.store.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list donations")
	}
	return out, nil
}

// SaveProfile creates or replaces the profile of userID.
func (s *Service) SaveProfile(ctx context.Context, userID, addressID, avatarID reference.ID, bio string) (*Profile, error) {
	p := &Profile{
		User:      reference.New(reference.KindUser, userID),
		Address:   reference.New(reference.KindAddress, addressID),
		Avatar:    reference.New(reference.KindPhoto, avatarID),
		Bio:       bio,
		UpdatedAt: requestcontext.Now(ctx),
	}
	if err := s.validator.ValidateAll(ctx, withOptional(p.User, p.Address, p.Avatar)...); err != nil {
		return nil, validator.ToDomainError(err)
	}
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}
	return p, nil
}

func (s *Service) Profile(ctx context.Context, userID reference.ID) (*Profile, error) {
	p, err := s.store.FindProfile(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "profile")
	}
	return p, nil
}

// SaveTeam creates a team whose members must all exist.
func (s *Service) SaveTeam(ctx context.Context, name string, memberIDs ...reference.ID) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "team name is required")
	}
	memberIDs = platformstrings.DedupeAndTrim(memberIDs)
	if len(memberIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "a team needs at least one member")
	}
	t := &Team{
		ID:        uuid.New(),
		Name:      name,
		Members:   make([]reference.Reference, len(memberIDs)),
		CreatedAt: requestcontext.Now(ctx),
	}
	for i, id := range memberIDs {
		t.Members[i] = reference.New(reference.KindUser, id)
	}
	if err := s.validator.ValidateAll(ctx, t.Members...); err != nil {
		return nil, validator.ToDomainError(err)
	}
	if err := s.store.SaveTeam(ctx, t); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save team")
	}
	return t, nil
}

func (s *Service) Team(ctx context.Context, id uuid.UUID) (*Team, error) {
	t, err := s.store.FindTeam(ctx, id)
	if err != nil {
		return nil, lookupError(err, "team")
	}
	return t, nil
}

// withOptional keeps the first reference and drops optional ones left null.
func withOptional(required reference.Reference, optional ...reference.Reference) []reference.Reference {
	refs := []reference.Reference{required}
	for _, ref := range optional {
		if !ref.IsZero() {
			refs = append(refs, ref)
		}
	}
	return refs
}

func lookupError(err error, entity string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeNotFound, entity+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+entity)
}
