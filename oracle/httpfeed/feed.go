// Package httpfeed is an oracle.Oracle that polls an HTTP price feed.
//
// The feed must answer GET requests with a JSON reading:
//
//	{"price": 120, "round_id": 42, "answered_in_round": 42,
//	 "started_at": "2026-10-18T10:00:00Z", "updated_at": "2026-10-18T10:00:03Z"}
//
// On top of the ledger's positivity check the adapter rejects incomplete
// rounds and, when configured with WithMaxAge, stale readings.
package httpfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/itemledger/oracle"
)

const tracerName = "github.com/xraph/itemledger/oracle/httpfeed"

// maxBody bounds how much of a feed response is read.
const maxBody = 1 << 16

var (
	// ErrStaleReading is returned when the reading is older than the max age.
	ErrStaleReading = errors.New("httpfeed: stale reading")

	// ErrIncompleteRound is returned when the answer belongs to an earlier round.
	ErrIncompleteRound = errors.New("httpfeed: incomplete round")

	// ErrBadStatus is returned for any non-200 response.
	ErrBadStatus = errors.New("httpfeed: unexpected status")
)

// compile-time interface check
var _ oracle.Oracle = (*Feed)(nil)

// Feed polls a price endpoint on every LatestPrice call. It keeps no cache.
type Feed struct {
	url        string
	httpClient *http.Client
	tracer     trace.Tracer
	maxAge     time.Duration
	now        func() time.Time
}

// Option configures a Feed.
type Option func(*Feed)

// WithHTTPClient sets the HTTP client. Timeouts come from the request context
// unless the client sets its own.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Feed) { f.httpClient = c }
}

// WithTracer sets the tracer used for client spans.
func WithTracer(t trace.Tracer) Option {
	return func(f *Feed) { f.tracer = t }
}

// WithMaxAge rejects readings whose UpdatedAt is older than d. Zero disables
// the check.
func WithMaxAge(d time.Duration) Option {
	return func(f *Feed) { f.maxAge = d }
}

// WithClock overrides the clock used for staleness checks.
func WithClock(now func() time.Time) Option {
	return func(f *Feed) { f.now = now }
}

// New creates a Feed reading from url.
func New(url string, opts ...Option) *Feed {
	f := &Feed{
		url: url,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
			},
		},
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// URL returns the feed endpoint.
func (f *Feed) URL() string { return f.url }

// LatestPrice implements oracle.Oracle.
func (f *Feed) LatestPrice(ctx context.Context) (oracle.Reading, error) {
	ctx, span := f.tracer.Start(ctx, "oracle.latest_price", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	r, err := f.fetch(ctx, span)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return oracle.Reading{}, err
	}

	span.SetAttributes(
		attribute.Int64("oracle.price", r.Price),
		attribute.Int64("oracle.round_id", int64(r.RoundID)), //nolint:gosec // round ids fit in int64 in practice
	)
	return r, nil
}

func (f *Feed) fetch(ctx context.Context, span trace.Span) (oracle.Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return oracle.Reading{}, fmt.Errorf("httpfeed: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	span.SetAttributes(
		attribute.String("http.url", f.url),
		attribute.String("http.method", http.MethodGet),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return oracle.Reading{}, fmt.Errorf("httpfeed: request %s: %w", f.url, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		return oracle.Reading{}, fmt.Errorf("%w: %s returned %s", ErrBadStatus, f.url, resp.Status)
	}

	var r oracle.Reading
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&r); err != nil {
		return oracle.Reading{}, fmt.Errorf("httpfeed: decode reading: %w", err)
	}

	if r.AnsweredInRound < r.RoundID {
		return oracle.Reading{}, fmt.Errorf("%w: answered in %d, current %d", ErrIncompleteRound, r.AnsweredInRound, r.RoundID)
	}
	if f.maxAge > 0 {
		if age := f.now().Sub(r.UpdatedAt); r.UpdatedAt.IsZero() || age > f.maxAge {
			return oracle.Reading{}, fmt.Errorf("%w: updated %s ago, max %s", ErrStaleReading, age.Round(time.Second), f.maxAge)
		}
	}
	return r, nil
}
