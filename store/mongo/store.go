package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/xraph/itemledger"
	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/item"
	ledgerstore "github.com/xraph/itemledger/store"
)

// Collection name constants.
const (
	colItems      = "itemledger_items"
	colController = "itemledger_controller"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// Store implements store.Store using MongoDB via Grove ORM.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates indexes for all itemledger collections.
func (s *Store) Migrate(ctx context.Context) error {
	indexes := migrationIndexes()

	for col, models := range indexes {
		if len(models) == 0 {
			continue
		}
		_, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("itemledger/mongo: migrate %s indexes: %w", col, err)
		}
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
	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return itemledger.ErrDuplicateItem
		}
		return fmt.Errorf("itemledger/mongo: create item: %w", err)
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, itemID item.ID) (*item.Item, error) {
	var m itemModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": itemID.SortKey()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, itemledger.ErrItemNotFound
		}
		return nil, fmt.Errorf("itemledger/mongo: get item: %w", err)
	}
	return fromItemModel(&m)
}

func (s *Store) UpdateItem(ctx context.Context, i *item.Item) error {
	m := toItemModel(i)

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("itemledger/mongo: update item: %w", err)
	}
	if res.MatchedCount() == 0 {
		return itemledger.ErrItemNotFound
	}
	return nil
}

func (s *Store) ListItems(ctx context.Context, opts item.ListOpts) ([]*item.Item, error) {
	var models []itemModel

	filter := bson.M{}
	if opts.Status != "" {
		filter["status"] = string(opts.Status)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "_id", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}
	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("itemledger/mongo: list items: %w", err)
	}

	result := make([]*item.Item, len(models))
	for i := range models {
		it, err := fromItemModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = it
	}
	return result, nil
}

// ==================== Controller binding ====================

func (s *Store) GetController(ctx context.Context) (access.Identity, error) {
	var m controllerModel
	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": controllerDocID}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return "", itemledger.ErrNotFound
		}
		return "", fmt.Errorf("itemledger/mongo: get controller: %w", err)
	}
	return access.Identity(m.Identity), nil
}

func (s *Store) SetController(ctx context.Context, controller access.Identity) error {
	if _, err := s.mdb.NewInsert(toControllerModel(controller)).Exec(ctx); err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("itemledger/mongo: bind controller: %w", err)
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

// isNoDocuments checks if an error wraps mongo.ErrNoDocuments.
func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// migrationIndexes returns the index definitions for all itemledger collections.
func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colItems: {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "_id", Value: 1}}},
		},
		colController: {},
	}
}
