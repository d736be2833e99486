package itemledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/id"
	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/oracle"
	"github.com/xraph/itemledger/plugin"
	"github.com/xraph/itemledger/store"
	"github.com/xraph/itemledger/treasury"
	"github.com/xraph/itemledger/types"
)

// Ledger is the item catalog engine.
type Ledger struct {
	gate    *access.Gate
	oracle  oracle.Oracle
	store   store.Store
	vault   treasury.Vault
	plugins *plugin.Registry
	logger  *slog.Logger
	now     func() time.Time

	skipMigrate bool

	// mu serializes mutations end to end: gate, oracle query, write and
	// notification all happen under it.
	mu sync.Mutex
}

// New creates a Ledger controlled by controller. The controller is fixed for
// the lifetime of the Ledger; there is no transfer.
func New(controller access.Identity, o oracle.Oracle, s store.Store, opts ...Option) (*Ledger, error) {
	gate, err := access.NewGate(controller)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ValidationError{Field: "oracle", Message: "required"}
	}
	if s == nil {
		return nil, ValidationError{Field: "store", Message: "required"}
	}

	l := &Ledger{
		gate:    gate,
		oracle:  o,
		store:   s,
		plugins: plugin.NewRegistry(),
		logger:  slog.Default(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l, nil
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithTreasury sets the vault drained by WithdrawFunds.
func WithTreasury(v treasury.Vault) Option {
	return func(l *Ledger) {
		l.vault = v
	}
}

// WithoutMigrate makes Start skip store migration. The controller is still
// bound.
func WithoutMigrate() Option {
	return func(l *Ledger) {
		l.skipMigrate = true
	}
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// Start migrates the store and binds it to this Ledger's controller. The
// first start on a fresh store records the controller; later starts must
// present the same identity.
func (l *Ledger) Start(ctx context.Context) error {
	// Migrate database
	if !l.skipMigrate {
		if err := l.store.Migrate(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrMigrationFailed, err)
		}
	}

	if err := l.bindController(ctx); err != nil {
		return err
	}

	// Initialize plugins
	l.plugins.EmitInit(ctx, l)

	l.logger.Info("itemledger started",
		"controller", l.gate.Controller(),
		"plugins", l.plugins.Count(),
		"treasury", l.vault != nil,
	)

	return nil
}

func (l *Ledger) bindController(ctx context.Context) error {
	controller := l.gate.Controller()

	bound, err := l.store.GetController(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		return l.store.SetController(ctx, controller)
	case err != nil:
		return err
	case bound != controller:
		return fmt.Errorf("%w: bound to %q, started as %q", ErrControllerMismatch, bound, controller)
	default:
		return nil
	}
}

// Stop shuts down the Ledger.
func (l *Ledger) Stop() error {
	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	return l.store.Close()
}

// Controller returns the identity allowed to mutate the catalog.
func (l *Ledger) Controller() access.Identity { return l.gate.Controller() }

// Plugins returns the notification registry.
func (l *Ledger) Plugins() *plugin.Registry { return l.plugins }

// ──────────────────────────────────────────────────
// Item Management
// ──────────────────────────────────────────────────

// CreateItem registers a new item at the current oracle price with status
// created and emits ItemAdded.
func (l *Ledger) CreateItem(ctx context.Context, caller access.Identity, itemID item.ID, name string, quantity uint64) (*item.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.authorize(caller, "create_item"); err != nil {
		return nil, err
	}

	_, err := l.store.GetItem(ctx, itemID)
	switch {
	case err == nil:
		return nil, ErrDuplicateItem
	case !errors.Is(err, ErrItemNotFound):
		return nil, err
	}

	price, err := l.latestPrice(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	i := &item.Item{
		ID:       itemID,
		Name:     name,
		Price:    price,
		Quantity: quantity,
		Status:   item.StatusCreated,
		Entity:   types.NewEntity(now),
	}

	if err := l.store.CreateItem(ctx, i); err != nil {
		return nil, err
	}

	l.plugins.EmitItemAdded(ctx, &item.Added{
		EventID:  id.NewEventID(),
		ItemID:   i.ID,
		Name:     i.Name,
		Price:    i.Price,
		Quantity: i.Quantity,
		At:       now,
	})

	l.logger.Info("item created", "item_id", itemID, "price", price, "quantity", quantity)
	return i, nil
}

// UpdateItem re-prices an existing item from the oracle and replaces its
// quantity. Name and status are left alone. It emits ItemUpdated.
func (l *Ledger) UpdateItem(ctx context.Context, caller access.Identity, itemID item.ID, quantity uint64) (*item.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.authorize(caller, "update_item"); err != nil {
		return nil, err
	}

	i, err := l.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	price, err := l.latestPrice(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	i.Price = price
	i.Quantity = quantity
	i.Touch(now)

	if err := l.store.UpdateItem(ctx, i); err != nil {
		return nil, err
	}

	l.plugins.EmitItemUpdated(ctx, &item.Updated{
		EventID:  id.NewEventID(),
		ItemID:   i.ID,
		Price:    i.Price,
		Quantity: i.Quantity,
		Status:   i.Status,
		At:       now,
	})

	l.logger.Info("item updated", "item_id", itemID, "price", price, "quantity", quantity)
	return i, nil
}

// UpdateStatus sets an item's status. Any status may follow any other.
// It emits ItemStatusUpdated.
func (l *Ledger) UpdateStatus(ctx context.Context, caller access.Identity, itemID item.ID, status item.Status) (*item.Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.authorize(caller, "update_status"); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	i, err := l.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := l.now().UTC()
	previous := i.Status
	i.Status = status
	i.Touch(now)

	if err := l.store.UpdateItem(ctx, i); err != nil {
		return nil, err
	}

	l.plugins.EmitItemStatusUpdated(ctx, &item.StatusUpdated{
		EventID: id.NewEventID(),
		ItemID:  i.ID,
		Status:  i.Status,
		At:      now,
	})

	l.logger.Info("item status updated", "item_id", itemID, "from", previous, "to", status)
	return i, nil
}

// GetItem retrieves an item by id. Anyone may read.
func (l *Ledger) GetItem(ctx context.Context, itemID item.ID) (*item.Item, error) {
	return l.store.GetItem(ctx, itemID)
}

// ListItems returns items in ascending id order.
func (l *Ledger) ListItems(ctx context.Context, opts item.ListOpts) ([]*item.Item, error) {
	if opts.Status != "" && !opts.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, opts.Status)
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, ValidationError{Field: "limit/offset", Message: "must not be negative"}
	}
	return l.store.ListItems(ctx, opts)
}

// ──────────────────────────────────────────────────
// Treasury
// ──────────────────────────────────────────────────

// WithdrawFunds moves the whole vault balance to the controller. An empty
// vault yields a zero-amount withdrawal with no transfer and no notification.
func (l *Ledger) WithdrawFunds(ctx context.Context, caller access.Identity) (*treasury.Withdrawal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.authorize(caller, "withdraw_funds"); err != nil {
		return nil, err
	}
	if l.vault == nil {
		return nil, ErrTreasuryNotConfigured
	}

	balance, err := l.vault.Balance(ctx)
	if err != nil {
		return nil, fmt.Errorf("itemledger: read balance: %w", err)
	}

	w := &treasury.Withdrawal{
		ID:     id.NewWithdrawalID(),
		To:     l.gate.Controller(),
		Amount: balance,
		At:     l.now().UTC(),
	}
	if !balance.IsPositive() {
		return w, nil
	}

	if err := l.vault.Transfer(ctx, w.To, balance); err != nil {
		return nil, fmt.Errorf("itemledger: transfer: %w", err)
	}

	l.plugins.EmitFundsWithdrawn(ctx, w)

	l.logger.Info("funds withdrawn", "withdrawal_id", w.ID, "amount", balance.String())
	return w, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func (l *Ledger) authorize(caller access.Identity, op string) error {
	if err := l.gate.RequireController(caller); err != nil {
		l.logger.Warn("call denied", "op", op, "caller", caller)
		return err
	}
	return nil
}

// latestPrice queries the oracle and accepts only strictly positive readings.
func (l *Ledger) latestPrice(ctx context.Context, itemID item.ID) (uint64, error) {
	r, err := l.oracle.LatestPrice(ctx)
	if err != nil {
		l.logger.Warn("oracle query failed", "item_id", itemID, "error", err)
		return 0, fmt.Errorf("%w: %w", ErrPriceUnavailable, err)
	}
	if r.Price <= 0 {
		l.logger.Warn("oracle reading rejected", "item_id", itemID, "price", r.Price, "round_id", r.RoundID)
		return 0, fmt.Errorf("%w: reading %d in round %d", ErrPriceUnavailable, r.Price, r.RoundID)
	}
	return uint64(r.Price), nil
}
