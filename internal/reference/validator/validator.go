// Package validator checks logical references against the peer that owns them
// before a local write is committed. It fails closed: a reference that cannot
// be verified is never treated as valid.
package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"refguard/internal/reference"
	"refguard/internal/reference/peer"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/platform/sentinel"
)

// ReasonMissing is the rejection reason for a null reference.
const ReasonMissing = "missing reference"

// RejectedError reports a reference proven absent (or missing).
type RejectedError struct {
	Ref    reference.Reference
	Reason string
}

func (e *RejectedError) Error() string { return e.Reason }

// UnavailableError reports that the owning peer could not answer.
type UnavailableError struct {
	Ref   reference.Reference
	Cause error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("cannot verify reference %s: %v", e.Ref, e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }

// Resolver is the subset of peer.Registry the validator needs.
type Resolver interface {
	Get(kind reference.Kind) (peer.Client, error)
}

// Validator runs one FetchOne per reference. It never retries.
type Validator struct {
	clients Resolver
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Validator)

func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(v *Validator) {
		v.metrics = m
	}
}

func New(clients Resolver, opts ...Option) *Validator {
	v := &Validator{clients: clients, logger: slog.Default()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns nil when ref names an existing entity, a *RejectedError
// when it does not (or is null), and an *UnavailableError when the peer could
// not be consulted. An unregistered kind is a contract violation.
func (v *Validator) Validate(ctx context.Context, ref reference.Reference) error {
	err := v.validate(ctx, ref)
	v.observe(ctx, ref, err)
	return err
}

func (v *Validator) validate(ctx context.Context, ref reference.Reference) error {
	if ref.ID.IsZero() {
		return &RejectedError{Ref: ref, Reason: ReasonMissing}
	}

	client, err := v.clients.Get(ref.Kind)
	if err != nil {
		return dErrors.Wrap(errors.Join(sentinel.ErrContractViolation, err), dErrors.CodeContractViolation,
			"no peer client for reference kind "+string(ref.Kind))
	}

	_, found, err := client.FetchOne(ctx, ref.ID)
	switch peer.Classify(found, err) {
	case peer.OutcomeFound:
		return nil
	case peer.OutcomeNotFound:
		return &RejectedError{Ref: ref, Reason: fmt.Sprintf("reference %s:%s does not exist", ref.Kind, ref.ID)}
	default:
		return &UnavailableError{Ref: ref, Cause: err}
	}
}

// ValidateAll validates refs in order and stops at the first failure.
func (v *Validator) ValidateAll(ctx context.Context, refs ...reference.Reference) error {
	for _, ref := range refs {
		if err := v.Validate(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) observe(ctx context.Context, ref reference.Reference, err error) {
	result := Result(err)
	v.logger.DebugContext(ctx, "reference validated",
		"kind", ref.Kind,
		"id", ref.ID,
		"result", result,
	)
	if v.metrics != nil {
		v.metrics.Validations.WithLabelValues(string(ref.Kind), result).Inc()
	}
}

// Result names the outcome of a Validate call: ok, rejected, unavailable or error.
func Result(err error) string {
	var rejected *RejectedError
	var unavailable *UnavailableError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &rejected):
		return "rejected"
	case errors.As(err, &unavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// ToDomainError maps validator outcomes onto caller-visible codes: rejected
// references become validation errors, unverifiable ones unavailable errors.
func ToDomainError(err error) error {
	if err == nil {
		return nil
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return dErrors.Wrap(err, dErrors.CodeValidation, rejected.Reason)
	}
	var unavailable *UnavailableError
	if errors.As(err, &unavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable,
			fmt.Sprintf("%s service unavailable, reference %s not verified", unavailable.Ref.Kind, unavailable.Ref))
	}
	return err
}

// Metrics holds validator counters.
type Metrics struct {
	Validations *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Validations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "refguard_reference_validations_total",
			Help: "Reference validations by kind and result",
		}, []string{"kind", "result"}),
	}
}
