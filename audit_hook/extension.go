// Package audithook bridges ledger notifications to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import any
// particular audit store. Callers inject a RecorderFunc adapter at wiring
// time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/plugin"
	"github.com/xraph/itemledger/treasury"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin              = (*Extension)(nil)
	_ plugin.OnInit              = (*Extension)(nil)
	_ plugin.OnShutdown          = (*Extension)(nil)
	_ plugin.OnItemAdded         = (*Extension)(nil)
	_ plugin.OnItemUpdated       = (*Extension)(nil)
	_ plugin.OnItemStatusUpdated = (*Extension)(nil)
	_ plugin.OnFundsWithdrawn    = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges ledger notifications to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Ledger lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit implements plugin.OnInit.
func (e *Extension) OnInit(ctx context.Context, _ interface{}) error {
	return e.record(ctx, ActionLedgerStarted, SeverityInfo,
		ResourceLedger, "", CategoryLifecycle,
	)
}

// OnShutdown implements plugin.OnShutdown.
func (e *Extension) OnShutdown(ctx context.Context) error {
	return e.record(ctx, ActionLedgerStopped, SeverityInfo,
		ResourceLedger, "", CategoryLifecycle,
	)
}

// ──────────────────────────────────────────────────
// Item hooks
// ──────────────────────────────────────────────────

// OnItemAdded implements plugin.OnItemAdded.
func (e *Extension) OnItemAdded(ctx context.Context, evt *item.Added) error {
	return e.record(ctx, ActionItemAdded, SeverityInfo,
		ResourceItem, evt.ItemID.String(), CategoryCatalog,
		"event_id", evt.EventID.String(),
		"name", evt.Name,
		"price", evt.Price,
		"quantity", evt.Quantity,
	)
}

// OnItemUpdated implements plugin.OnItemUpdated.
func (e *Extension) OnItemUpdated(ctx context.Context, evt *item.Updated) error {
	return e.record(ctx, ActionItemUpdated, SeverityInfo,
		ResourceItem, evt.ItemID.String(), CategoryCatalog,
		"event_id", evt.EventID.String(),
		"price", evt.Price,
		"quantity", evt.Quantity,
		"status", string(evt.Status),
	)
}

// OnItemStatusUpdated implements plugin.OnItemStatusUpdated. Cancellations
// are recorded as warnings.
func (e *Extension) OnItemStatusUpdated(ctx context.Context, evt *item.StatusUpdated) error {
	severity := SeverityInfo
	if evt.Status == item.StatusCanceled {
		severity = SeverityWarning
	}
	return e.record(ctx, ActionItemStatusUpdated, severity,
		ResourceItem, evt.ItemID.String(), CategoryCatalog,
		"event_id", evt.EventID.String(),
		"status", string(evt.Status),
	)
}

// ──────────────────────────────────────────────────
// Treasury hooks
// ──────────────────────────────────────────────────

// OnFundsWithdrawn implements plugin.OnFundsWithdrawn.
func (e *Extension) OnFundsWithdrawn(ctx context.Context, w *treasury.Withdrawal) error {
	return e.record(ctx, ActionFundsWithdrawn, SeverityCritical,
		ResourceTreasury, w.ID.String(), CategoryTreasury,
		"to", w.To.String(),
		"amount", w.Amount.Amount,
		"currency", w.Amount.Currency,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity string,
	resource, resourceID, category string,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    OutcomeSuccess,
		Severity:   severity,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
