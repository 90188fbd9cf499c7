package peer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"refguard/internal/reference"
	"refguard/pkg/platform/circuit"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultListPath = "/"
	maxBodyBytes    = 4 << 20
)

// Config describes how to reach the peer that owns one entity kind.
type Config struct {
	Kind     reference.Kind
	BaseURL  string
	ListPath string
	// Timeout is the ceiling applied to every call.
	Timeout time.Duration
}

// HTTPClient talks to a peer over HTTP: GET {base}/{id} and GET {base}{list}.
// Each call is fresh; nothing is cached.
type HTTPClient struct {
	kind     reference.Kind
	baseURL  string
	listPath string
	timeout  time.Duration

	http    *http.Client
	breaker *circuit.Breaker
	metrics *Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		c.http = hc
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(c *HTTPClient) {
		c.breaker = b
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *HTTPClient) {
		c.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *HTTPClient) {
		c.tracer = t
	}
}

// NewHTTPClient validates cfg and builds a client.
func NewHTTPClient(cfg Config, opts ...Option) (*HTTPClient, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("peer config: kind is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("peer config %s: invalid base URL %q", cfg.Kind, cfg.BaseURL)
	}
	listPath := cfg.ListPath
	if listPath == "" {
		listPath = defaultListPath
	}
	if !strings.HasPrefix(listPath, "/") {
		listPath = "/" + listPath
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &HTTPClient{
		kind:     cfg.Kind,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		listPath: listPath,
		timeout:  timeout,
		http:     &http.Client{},
		logger:   slog.Default(),
		tracer:   otel.Tracer("refguard/peer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.breaker != nil && c.metrics != nil {
		c.metrics.setBreakerState(string(c.kind), c.breaker.IsOpen())
	}
	return c, nil
}

func (c *HTTPClient) Kind() reference.Kind { return c.kind }

// FetchOne looks up a single entity. A peer 404 yields found=false, nil.
func (c *HTTPClient) FetchOne(ctx context.Context, id reference.ID) (reference.Descriptor, bool, error) {
	if id.IsZero() {
		return reference.Descriptor{}, false, reference.ErrMissingID
	}

	ctx, span := c.tracer.Start(ctx, "peer.fetch_one", trace.WithAttributes(
		attribute.String("peer.kind", string(c.kind)),
		attribute.String("peer.entity_id", id.String()),
	))
	defer span.End()

	start := time.Now()
	desc, found, err := c.fetchOne(ctx, id)
	c.finish(ctx, span, opFetchOne, Classify(found, err), start, err)
	return desc, found, err
}

func (c *HTTPClient) fetchOne(ctx context.Context, id reference.ID) (reference.Descriptor, bool, error) {
	if err := c.allow(opFetchOne); err != nil {
		return reference.Descriptor{}, false, err
	}

	status, body, err := c.get(ctx, opFetchOne, c.baseURL+"/"+url.PathEscape(id.String()))
	if err != nil {
		return reference.Descriptor{}, false, c.fail(err)
	}

	switch {
	case status == http.StatusNotFound:
		c.succeed()
		return reference.Descriptor{}, false, nil
	case status == http.StatusOK:
		desc, err := decodeDescriptor(c.kind, body)
		if err != nil {
			return reference.Descriptor{}, false, c.fail(c.badData(opFetchOne, status, body, err))
		}
		if desc.ID.IsZero() {
			return reference.Descriptor{}, false, c.fail(c.badData(opFetchOne, status, body, errors.New("entity has no id")))
		}
		c.succeed()
		return desc, true, nil
	default:
		return reference.Descriptor{}, false, c.fail(c.statusError(opFetchOne, status, body))
	}
}

// FetchAll lists every entity of the kind. Any failure fails the whole call.
func (c *HTTPClient) FetchAll(ctx context.Context) ([]reference.Descriptor, error) {
	ctx, span := c.tracer.Start(ctx, "peer.fetch_all", trace.WithAttributes(
		attribute.String("peer.kind", string(c.kind)),
	))
	defer span.End()

	start := time.Now()
	list, err := c.fetchAll(ctx)
	outcome := OutcomeFound
	if err != nil {
		outcome = OutcomeUnavailable
	} else {
		span.SetAttributes(attribute.Int("peer.entity_count", len(list)))
	}
	c.finish(ctx, span, opFetchAll, outcome, start, err)
	return list, err
}

func (c *HTTPClient) fetchAll(ctx context.Context) ([]reference.Descriptor, error) {
	if err := c.allow(opFetchAll); err != nil {
		return nil, err
	}

	status, body, err := c.get(ctx, opFetchAll, c.baseURL+c.listPath)
	if err != nil {
		return nil, c.fail(err)
	}
	if status != http.StatusOK {
		return nil, c.fail(c.statusError(opFetchAll, status, body))
	}
	list, err := decodeList(c.kind, body)
	if err != nil {
		return nil, c.fail(c.badData(opFetchAll, status, body, err))
	}
	c.succeed()
	return list, nil
}

// get issues a bounded GET. Transport failures come back as *Error.
func (c *HTTPClient) get(ctx context.Context, op, target string) (int, []byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, newError(CategoryBadData, c.kind, op, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, c.transportError(ctx, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, c.transportError(ctx, op, err)
	}
	return resp.StatusCode, body, nil
}

func (c *HTTPClient) transportError(parent context.Context, op string, err error) *Error {
	if parent.Err() != nil {
		return newError(CategoryCancelled, c.kind, op, "caller cancelled", parent.Err())
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return newError(CategoryTimeout, c.kind, op, fmt.Sprintf("no response within %s", c.timeout), err)
	}
	return newError(CategoryOutage, c.kind, op, "transport failure", err)
}

func (c *HTTPClient) statusError(op string, status int, body []byte) *Error {
	category := CategoryRejectedStatus
	if status >= 500 {
		category = CategoryOutage
	}
	e := newError(category, c.kind, op, "unexpected status: "+snippet(body), nil)
	e.StatusCode = status
	return e
}

func (c *HTTPClient) badData(op string, status int, body []byte, cause error) *Error {
	e := newError(CategoryBadData, c.kind, op, "malformed body: "+snippet(body), cause)
	e.StatusCode = status
	return e
}

func (c *HTTPClient) allow(op string) error {
	if c.breaker == nil || c.breaker.Allow() {
		return nil
	}
	return newError(CategoryCircuitOpen, c.kind, op, "circuit open, call not attempted", nil)
}

func (c *HTTPClient) fail(err error) error {
	if c.breaker == nil {
		return err
	}
	if cat, _ := GetCategory(err); cat == CategoryCancelled {
		return err
	}
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.Warn("peer circuit opened", "kind", c.kind, "error", err)
		if c.metrics != nil {
			c.metrics.setBreakerState(string(c.kind), true)
		}
	}
	return err
}

func (c *HTTPClient) succeed() {
	if c.breaker == nil {
		return
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.Info("peer circuit closed", "kind", c.kind)
		if c.metrics != nil {
			c.metrics.setBreakerState(string(c.kind), false)
		}
	}
}

func (c *HTTPClient) finish(ctx context.Context, span trace.Span, op string, outcome Outcome, start time.Time, err error) {
	span.SetAttributes(attribute.String("peer.outcome", string(outcome)))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "peer unavailable")
		c.logger.WarnContext(ctx, "peer call failed",
			"kind", c.kind,
			"op", op,
			"error", err,
		)
	}
	if c.metrics != nil {
		c.metrics.observe(string(c.kind), op, string(outcome), time.Since(start).Seconds())
	}
}
