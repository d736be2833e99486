package store

import (
	"context"

	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/item"
)

// Store is the unified storage interface for the ledger.
//
// Implementations must be safe for concurrent use and must hand out copies:
// a record returned by GetItem or ListItems never aliases stored state.
type Store interface {
	// Item methods
	item.Store

	// Controller binding. GetController returns itemledger.ErrNotFound until
	// SetController has been called once. SetController refuses to replace
	// an existing, different binding with itemledger.ErrControllerMismatch.
	GetController(ctx context.Context) (access.Identity, error)
	SetController(ctx context.Context, controller access.Identity) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
