// Package audit records the append-only history of state transitions on
// tracked local entities. Each record attaches to exactly one parent entity.
//
// Record is synchronous and fail-closed: callers run it inside the same unit
// of work as the state mutation, so a failed append rolls the mutation back.
package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"refguard/internal/reference"
	"refguard/pkg/requestcontext"
)

// Recorder appends audit records. It does not judge whether a transition is
// legal; that policy belongs to the caller.
type Recorder struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Recorder)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

func NewRecorder(store Store, opts ...Option) *Recorder {
	r := &Recorder{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record appends one transition from prior to next on parent. A nil parent,
// a parent without id or a null state reference is a contract violation.
func (r *Recorder) Record(ctx context.Context, parent Parent, prior, next reference.Reference, detail string) (Record, error) {
	if err := checkContract(parent, prior, next); err != nil {
		r.logger.ErrorContext(ctx, "audit contract violated", "error", err)
		return Record{}, err
	}

	record := Record{
		ID:         uuid.New(),
		CreatedAt:  requestcontext.Now(ctx).UTC(),
		Detail:     detail,
		PriorState: prior,
		NewState:   next,
		Parent:     parent,
	}

	if err := r.store.Append(ctx, record); err != nil {
		if r.metrics != nil {
			r.metrics.PersistFailures.Inc()
		}
		r.logger.ErrorContext(ctx, "audit append failed",
			"parent_kind", parent.Kind(),
			"parent_id", parent.ID(),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return Record{}, fmt.Errorf("append audit record: %w", err)
	}

	if r.metrics != nil {
		r.metrics.Records.WithLabelValues(string(parent.Kind())).Inc()
	}
	return record, nil
}

// History returns the records of parent, oldest first.
func (r *Recorder) History(ctx context.Context, parent Parent) ([]Record, error) {
	if parent == nil || parent.ID() == "" {
		return nil, contractViolation("history requires a parent")
	}
	records, err := r.store.ListByParent(ctx, parent)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// Purge removes the history of parent. Only cascade deletion of the parent
// entity may call it.
func (r *Recorder) Purge(ctx context.Context, parent Parent) (int, error) {
	if parent == nil || parent.ID() == "" {
		return 0, contractViolation("purge requires a parent")
	}
	n, err := r.store.DeleteByParent(ctx, parent)
	if err != nil {
		return 0, fmt.Errorf("delete audit records: %w", err)
	}
	return n, nil
}

func checkContract(parent Parent, prior, next reference.Reference) error {
	if parent == nil {
		return contractViolation("audit record needs exactly one parent, got 0")
	}
	if parent.ID() == "" {
		return contractViolation(fmt.Sprintf("%s parent has no id", parent.Kind()))
	}
	if prior.IsZero() {
		return contractViolation("prior state reference is required")
	}
	if next.IsZero() {
		return contractViolation("new state reference is required")
	}
	return nil
}

// Metrics holds audit counters.
type Metrics struct {
	Records         *prometheus.CounterVec
	PersistFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Records: f.NewCounterVec(prometheus.CounterOpts{
			Name: "refguard_audit_records_total",
			Help: "Audit records appended by parent kind",
		}, []string{"parent_kind"}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "refguard_audit_persist_failures_total",
			Help: "Audit appends that failed and aborted their unit of work",
		}),
	}
}
