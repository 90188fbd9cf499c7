// Package bulk assigns remote references to freshly created local entities in
// bootstrap and seeding flows. It always produces a non-null identifier per
// slot, substituting deterministic synthetic identifiers when the owning peer
// is down or returns malformed data.
//
// Resolver trades referential correctness for availability. It must never
// back a production write path; those go through the validator, which fails
// closed.
package bulk

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"refguard/internal/reference"
	"refguard/internal/reference/peer"
)

// DefaultFallbackBase offsets synthetic identifiers away from real ones.
const DefaultFallbackBase int64 = 900000

// Fallback reasons.
const (
	ReasonUnavailable  = "unavailable"
	ReasonEmpty        = "empty"
	ReasonMalformed    = "malformed"
	ReasonUnregistered = "unregistered"
)

// Lister is the subset of peer.Registry the resolver needs.
type Lister interface {
	Get(kind reference.Kind) (peer.Client, error)
}

// Report summarizes one ResolveMany batch.
type Report struct {
	Kind      reference.Kind
	Requested int
	// Available is the number of descriptors the peer returned.
	Available int
	Fallbacks int
	// Cause is the peer error when the list collapsed to empty.
	Cause error
}

// Degraded reports whether any slot carries a synthetic identifier.
func (r Report) Degraded() bool { return r.Fallbacks > 0 }

// Resolver distributes remote identifiers across local slots.
type Resolver struct {
	clients Lister
	bases   map[reference.Kind]int64
	logger  *slog.Logger
	metrics *Metrics
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithFallbackBase sets the synthetic identifier offset for kind.
func WithFallbackBase(kind reference.Kind, base int64) Option {
	return func(r *Resolver) {
		r.bases[kind] = base
	}
}

func New(clients Lister, opts ...Option) *Resolver {
	r := &Resolver{
		clients: clients,
		bases:   make(map[reference.Kind]int64),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveMany returns exactly count references of kind (none when count <= 0).
func (r *Resolver) ResolveMany(ctx context.Context, kind reference.Kind, count int) []reference.Reference {
	refs, _ := r.ResolveManyReport(ctx, kind, count)
	return refs
}

// ResolveManyReport is ResolveMany plus a summary of how degraded the batch is.
//
// With N > 0 descriptors available, slot i takes descriptor i mod N, reusing
// remote identifiers when N < count. Descriptors with a null id and an empty
// or unavailable list yield fallback base+i for the slot.
func (r *Resolver) ResolveManyReport(ctx context.Context, kind reference.Kind, count int) ([]reference.Reference, Report) {
	report := Report{Kind: kind, Requested: count}
	if count <= 0 {
		return []reference.Reference{}, report
	}

	list, err := r.list(ctx, kind)
	report.Available = len(list)
	report.Cause = err

	refs := make([]reference.Reference, count)
	if len(list) == 0 {
		for i := range refs {
			refs[i] = r.fallback(kind, i)
		}
		reason := ReasonEmpty
		switch {
		case peer.IsUnavailable(err):
			reason = ReasonUnavailable
		case err != nil:
			reason = ReasonUnregistered
		}
		report.Fallbacks = count
		r.logger.WarnContext(ctx, "peer returned no entities, references satisfied with synthetic data",
			"kind", kind,
			"count", count,
			"reason", reason,
			"error", err,
		)
		r.count(kind, reason, count)
		return refs, report
	}

	for i := range refs {
		d := list[i%len(list)]
		if d.ID.IsZero() {
			refs[i] = r.fallback(kind, i)
			report.Fallbacks++
			r.logger.WarnContext(ctx, "peer entity without id, slot satisfied with synthetic data",
				"kind", kind,
				"slot", i,
				"fallback_id", refs[i].ID,
			)
			r.count(kind, ReasonMalformed, 1)
			continue
		}
		refs[i] = reference.New(kind, d.ID)
	}
	return refs, report
}

// list collapses every failure, including an unknown kind, into an empty list.
func (r *Resolver) list(ctx context.Context, kind reference.Kind) ([]reference.Descriptor, error) {
	client, err := r.clients.Get(kind)
	if err != nil {
		return nil, err
	}
	list, err := client.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Resolver) fallback(kind reference.Kind, slot int) reference.Reference {
	base, ok := r.bases[kind]
	if !ok {
		base = DefaultFallbackBase
	}
	return reference.Reference{
		Kind:     kind,
		ID:       reference.ID(strconv.FormatInt(base+int64(slot), 10)),
		Fallback: true,
	}
}

func (r *Resolver) count(kind reference.Kind, reason string, n int) {
	if r.metrics != nil {
		r.metrics.Fallbacks.WithLabelValues(string(kind), reason).Add(float64(n))
	}
}

// Assignment holds resolved references per kind.
type Assignment struct {
	Refs    map[reference.Kind][]reference.Reference
	Reports map[reference.Kind]Report
}

// At returns the reference for kind at slot i.
func (a Assignment) At(kind reference.Kind, i int) reference.Reference {
	return a.Refs[kind][i]
}

// ResolvePlan resolves several kinds concurrently. Peer failures degrade to
// fallbacks; the only error is cancellation of ctx.
func (r *Resolver) ResolvePlan(ctx context.Context, plan map[reference.Kind]int) (Assignment, error) {
	type result struct {
		refs   []reference.Reference
		report Report
	}
	results := make(map[reference.Kind]*result, len(plan))
	for kind := range plan {
		results[kind] = &result{}
	}

	g, gctx := errgroup.WithContext(ctx)
	for kind, count := range plan {
		res := results[kind]
		g.Go(func() error {
			res.refs, res.report = r.ResolveManyReport(gctx, kind, count)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Assignment{}, err
	}
	if err := ctx.Err(); err != nil {
		return Assignment{}, err
	}

	a := Assignment{
		Refs:    make(map[reference.Kind][]reference.Reference, len(plan)),
		Reports: make(map[reference.Kind]Report, len(plan)),
	}
	for kind, res := range results {
		a.Refs[kind] = res.refs
		a.Reports[kind] = res.report
	}
	return a, nil
}

// Metrics counts fallback substitutions.
type Metrics struct {
	Fallbacks *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Fallbacks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "refguard_bulk_fallback_total",
			Help: "Synthetic reference identifiers substituted during bulk resolution",
		}, []string{"kind", "reason"}),
	}
}
