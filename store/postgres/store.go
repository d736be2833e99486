package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/itemledger"
	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/item"
	ledgerstore "github.com/xraph/itemledger/store"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// orderByID sorts BIGINT-stored uint64 ids in unsigned order: ids at or
// above 2^63 are negative in the column and must come last.
const orderByID = "id < 0, id ASC"

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the required tables and indexes using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("itemledger/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("itemledger/postgres: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Item Store ====================

func (s *Store) CreateItem(ctx context.Context, i *item.Item) error {
	m := toItemModel(i)
	if _, err := s.pg.NewInsert(m).Exec(ctx); err != nil {
		if isDuplicate(err) {
			return itemledger.ErrDuplicateItem
		}
		return fmt.Errorf("itemledger/postgres: create item: %w", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, itemID item.ID) (*item.Item, error) {
	m := new(itemModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", int64(itemID)). //nolint:gosec // bit-preserving
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, itemledger.ErrItemNotFound
		}
		return nil, fmt.Errorf("itemledger/postgres: get item: %w", err)
	}
	return fromItemModel(m), nil
}

func (s *Store) UpdateItem(ctx context.Context, i *item.Item) error {
	m := toItemModel(i)
	res, err := s.pg.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("itemledger/postgres: update item: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return itemledger.ErrItemNotFound
	}
	return nil
}

func (s *Store) ListItems(ctx context.Context, opts item.ListOpts) ([]*item.Item, error) {
	var models []itemModel
	q := s.pg.NewSelect(&models)

	if opts.Status != "" {
		q = q.Where("status = $1", string(opts.Status))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr(orderByID)

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("itemledger/postgres: list items: %w", err)
	}

	result := make([]*item.Item, len(models))
	for i := range models {
		result[i] = fromItemModel(&models[i])
	}
	return result, nil
}

// ==================== Controller binding ====================

func (s *Store) GetController(ctx context.Context) (access.Identity, error) {
	m := new(controllerModel)
	err := s.pg.NewSelect(m).
		Where("id = $1", controllerRowID).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return "", itemledger.ErrNotFound
		}
		return "", fmt.Errorf("itemledger/postgres: get controller: %w", err)
	}
	return access.Identity(m.Identity), nil
}

func (s *Store) SetController(ctx context.Context, controller access.Identity) error {
	if _, err := s.pg.NewInsert(toControllerModel(controller)).Exec(ctx); err != nil {
		if !isDuplicate(err) {
			return fmt.Errorf("itemledger/postgres: bind controller: %w", err)
		}
	}

	bound, err := s.GetController(ctx)
	if err != nil {
		return err
	}
	if bound != controller {
		return itemledger.ErrControllerMismatch
	}
	return nil
}

// ==================== Helpers ====================

// now returns the current UTC time.
func now() time.Time {
	return time.Now().UTC()
}

// isNoRows checks for the standard sql.ErrNoRows sentinel.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isDuplicate reports whether err is a unique constraint violation.
func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
