// Package plugin provides the hook system the ledger uses to publish
// notifications. A plugin implements Plugin plus any of the hook interfaces
// below; the registry discovers them at registration time.
package plugin

import (
	"context"

	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/treasury"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the ledger starts.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the ledger stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Item hooks
// ──────────────────────────────────────────────────

// OnItemAdded is called once after an item is created.
type OnItemAdded interface {
	Plugin
	OnItemAdded(ctx context.Context, evt *item.Added) error
}

// OnItemUpdated is called once after an item's price and quantity are refreshed.
type OnItemUpdated interface {
	Plugin
	OnItemUpdated(ctx context.Context, evt *item.Updated) error
}

// OnItemStatusUpdated is called once after an item's status is set.
type OnItemStatusUpdated interface {
	Plugin
	OnItemStatusUpdated(ctx context.Context, evt *item.StatusUpdated) error
}

// ──────────────────────────────────────────────────
// Treasury hooks
// ──────────────────────────────────────────────────

// OnFundsWithdrawn is called once after a non-empty withdrawal settles.
type OnFundsWithdrawn interface {
	Plugin
	OnFundsWithdrawn(ctx context.Context, w *treasury.Withdrawal) error
}
