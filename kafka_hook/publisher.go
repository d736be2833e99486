// Package kafkahook publishes ledger notifications to a Kafka topic.
//
// Every notification becomes one message keyed by the item id (or the
// withdrawal id for treasury events), so all events for one item land on
// the same partition in commit order. The value is a JSON Envelope; the
// event type is also set as the "event-type" header, and the current trace
// context is injected into the headers.
package kafkahook

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/plugin"
	"github.com/xraph/itemledger/treasury"
)

const tracerName = "github.com/xraph/itemledger/kafka_hook"

// Event types carried in Envelope.Type and the "event-type" header.
const (
	TypeItemAdded         = "item.added"
	TypeItemUpdated       = "item.updated"
	TypeItemStatusUpdated = "item.status_updated"
	TypeFundsWithdrawn    = "funds.withdrawn"
)

// HeaderEventType names the header holding the event type.
const HeaderEventType = "event-type"

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Publisher)(nil)
	_ plugin.OnShutdown          = (*Publisher)(nil)
	_ plugin.OnItemAdded         = (*Publisher)(nil)
	_ plugin.OnItemUpdated       = (*Publisher)(nil)
	_ plugin.OnItemStatusUpdated = (*Publisher)(nil)
	_ plugin.OnFundsWithdrawn    = (*Publisher)(nil)

	_ MessageWriter = (*kafka.Writer)(nil)
)

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the JSON value of every published message.
type Envelope struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewWriter creates a Kafka writer for topic. Messages are partitioned by
// key hash and every in-sync replica must acknowledge a write.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// Publisher is a ledger plugin that writes notifications to Kafka.
type Publisher struct {
	writer MessageWriter
	tracer trace.Tracer
	logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithLogger sets the logger for the publisher.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

// WithTracer sets the tracer used for producer spans.
func WithTracer(t trace.Tracer) Option {
	return func(p *Publisher) { p.tracer = t }
}

// New creates a Publisher writing through w. The publisher owns w and
// closes it on ledger shutdown.
func New(w MessageWriter, opts ...Option) *Publisher {
	p := &Publisher{
		writer: w,
		tracer: otel.Tracer(tracerName),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements plugin.Plugin.
func (p *Publisher) Name() string { return "kafka-hook" }

// OnShutdown implements plugin.OnShutdown.
func (p *Publisher) OnShutdown(_ context.Context) error {
	return p.writer.Close()
}

// OnItemAdded implements plugin.OnItemAdded.
func (p *Publisher) OnItemAdded(ctx context.Context, evt *item.Added) error {
	return p.publish(ctx, TypeItemAdded, evt.ItemID.String(), evt.At, evt)
}

// OnItemUpdated implements plugin.OnItemUpdated.
func (p *Publisher) OnItemUpdated(ctx context.Context, evt *item.Updated) error {
	return p.publish(ctx, TypeItemUpdated, evt.ItemID.String(), evt.At, evt)
}

// OnItemStatusUpdated implements plugin.OnItemStatusUpdated.
func (p *Publisher) OnItemStatusUpdated(ctx context.Context, evt *item.StatusUpdated) error {
	return p.publish(ctx, TypeItemStatusUpdated, evt.ItemID.String(), evt.At, evt)
}

// OnFundsWithdrawn implements plugin.OnFundsWithdrawn.
func (p *Publisher) OnFundsWithdrawn(ctx context.Context, w *treasury.Withdrawal) error {
	return p.publish(ctx, TypeFundsWithdrawn, w.ID.String(), w.At, w)
}

func (p *Publisher) publish(ctx context.Context, eventType, key string, at time.Time, payload any) error {
	ctx, span := p.tracer.Start(ctx, "kafka.publish "+eventType, trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()
	span.SetAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.kafka.message.key", key),
		attribute.String("itemledger.event_type", eventType),
	)

	raw, err := json.Marshal(payload)
	if err != nil {
		return p.fail(span, fmt.Errorf("kafka_hook: marshal %s: %w", eventType, err))
	}
	value, err := json.Marshal(Envelope{Type: eventType, OccurredAt: at, Payload: raw})
	if err != nil {
		return p.fail(span, fmt.Errorf("kafka_hook: marshal envelope: %w", err))
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(eventType)},
		},
	}
	InjectTraceContext(ctx, &msg.Headers)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return p.fail(span, fmt.Errorf("kafka_hook: write %s for %s: %w", eventType, key, err))
	}

	p.logger.Debug("kafka_hook: published", "type", eventType, "key", key)
	return nil
}

func (p *Publisher) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// Decode parses a message produced by Publisher.
func Decode(msg kafka.Message) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return Envelope{}, fmt.Errorf("kafka_hook: decode %s: %w", msg.Key, err)
	}
	return env, nil
}
