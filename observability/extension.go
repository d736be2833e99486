// Package observability provides a metrics extension for the ledger that
// records notification counts through a MetricFactory.
package observability

import (
	"context"

	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/plugin"
	"github.com/xraph/itemledger/treasury"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin              = (*MetricsExtension)(nil)
	_ plugin.OnInit              = (*MetricsExtension)(nil)
	_ plugin.OnItemAdded         = (*MetricsExtension)(nil)
	_ plugin.OnItemUpdated       = (*MetricsExtension)(nil)
	_ plugin.OnItemStatusUpdated = (*MetricsExtension)(nil)
	_ plugin.OnFundsWithdrawn    = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records catalog and treasury metrics.
// Register it as a ledger plugin to track them automatically.
type MetricsExtension struct {
	factory MetricFactory

	// Item metrics
	ItemAdded         Counter
	ItemUpdated       Counter
	ItemStatusUpdated Counter
	ItemPrice         Histogram
	ItemQuantity      Histogram

	// Per-status transition counters, keyed by target status
	StatusTransitions map[item.Status]Counter

	// Treasury metrics
	FundsWithdrawn  Counter
	WithdrawnAmount Histogram
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	m := &MetricsExtension{
		factory: factory,

		// Item metrics
		ItemAdded:         factory.Counter("itemledger.item.added"),
		ItemUpdated:       factory.Counter("itemledger.item.updated"),
		ItemStatusUpdated: factory.Counter("itemledger.item.status_updated"),
		ItemPrice:         factory.Histogram("itemledger.item.price"),
		ItemQuantity:      factory.Histogram("itemledger.item.quantity"),

		// Treasury metrics
		FundsWithdrawn:  factory.Counter("itemledger.funds.withdrawn"),
		WithdrawnAmount: factory.Histogram("itemledger.funds.withdrawn_amount"),
	}

	m.StatusTransitions = make(map[item.Status]Counter, len(item.Statuses()))
	for _, s := range item.Statuses() {
		m.StatusTransitions[s] = factory.Counter("itemledger.item.status." + string(s))
	}
	return m
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	return nil
}

// ──────────────────────────────────────────────────
// Item hooks
// ──────────────────────────────────────────────────

// OnItemAdded implements plugin.OnItemAdded.
func (m *MetricsExtension) OnItemAdded(_ context.Context, evt *item.Added) error {
	m.ItemAdded.Inc()
	m.ItemPrice.Observe(float64(evt.Price))
	m.ItemQuantity.Observe(float64(evt.Quantity))
	return nil
}

// OnItemUpdated implements plugin.OnItemUpdated.
func (m *MetricsExtension) OnItemUpdated(_ context.Context, evt *item.Updated) error {
	m.ItemUpdated.Inc()
	m.ItemPrice.Observe(float64(evt.Price))
	m.ItemQuantity.Observe(float64(evt.Quantity))
	return nil
}

// OnItemStatusUpdated implements plugin.OnItemStatusUpdated.
func (m *MetricsExtension) OnItemStatusUpdated(_ context.Context, evt *item.StatusUpdated) error {
	m.ItemStatusUpdated.Inc()
	if c, ok := m.StatusTransitions[evt.Status]; ok {
		c.Inc()
	}
	return nil
}

// ──────────────────────────────────────────────────
// Treasury hooks
// ──────────────────────────────────────────────────

// OnFundsWithdrawn implements plugin.OnFundsWithdrawn.
func (m *MetricsExtension) OnFundsWithdrawn(_ context.Context, w *treasury.Withdrawal) error {
	m.FundsWithdrawn.Inc()
	m.WithdrawnAmount.Observe(float64(w.Amount.Amount))
	return nil
}
