// Package redis provides a store.Store backed by Redis.
//
// Layout, under a configurable key prefix (default "itemledger:"):
//
//	item:{sortkey}          JSON-encoded item
//	items                   sorted set of every item's sort key, score 0
//	items:status:{status}   sorted set of the sort keys in one status
//	controller              controller identity
//
// All members share score 0, so ZRANGE BYLEX walks ids in ascending numeric
// order (see item.ID.SortKey). Multi-key writes run as Lua scripts and are
// atomic.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/xraph/itemledger"
	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/item"
	ledgerstore "github.com/xraph/itemledger/store"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

// DefaultPrefix is the key prefix used unless WithPrefix is given.
const DefaultPrefix = "itemledger:"

// createScript inserts an item and indexes it, unless the item key exists.
//
// KEYS[1] item key, KEYS[2] all-items index, KEYS[3] status index
// ARGV[1] item JSON, ARGV[2] sort key
var createScript = redis.NewScript(`
if redis.call('exists', KEYS[1]) == 1 then
    return 0
end
redis.call('set', KEYS[1], ARGV[1])
redis.call('zadd', KEYS[2], 0, ARGV[2])
redis.call('zadd', KEYS[3], 0, ARGV[2])
return 1
`)

// updateScript overwrites an existing item and moves it to its status index.
//
// KEYS[1] item key, KEYS[2] new status index, KEYS[3..] every status index
// ARGV[1] item JSON, ARGV[2] sort key
var updateScript = redis.NewScript(`
if redis.call('exists', KEYS[1]) == 0 then
    return 0
end
redis.call('set', KEYS[1], ARGV[1])
for i = 3, #KEYS do
    redis.call('zrem', KEYS[i], ARGV[2])
end
redis.call('zadd', KEYS[2], 0, ARGV[2])
return 1
`)

// Store implements store.Store using Redis.
type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix. Stores with different prefixes share
// nothing.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// New creates a Redis store on rdb.
func New(rdb redis.UniversalClient, opts ...Option) *Store {
	s := &Store{rdb: rdb, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the underlying Redis client.
func (s *Store) Client() redis.UniversalClient { return s.rdb }

// Migrate loads the write scripts into the server's script cache.
func (s *Store) Migrate(ctx context.Context) error {
	for _, script := range []*redis.Script{createScript, updateScript} {
		if err := script.Load(ctx, s.rdb).Err(); err != nil {
			return fmt.Errorf("itemledger/redis: load script: %w", err)
		}
	}
	return nil
}

// Ping checks server connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the client.
func (s *Store) Close() error {
	return s.rdb.Close()
}

// ==================== Keys ====================

func (s *Store) itemKey(itemID item.ID) string { return s.prefix + "item:" + itemID.SortKey() }
func (s *Store) indexKey() string              { return s.prefix + "items" }
func (s *Store) controllerKey() string         { return s.prefix + "controller" }

func (s *Store) statusKey(st item.Status) string {
	return s.prefix + "items:status:" + string(st)
}

// ==================== Item Store ====================

func (s *Store) CreateItem(ctx context.Context, i *item.Item) error {
	data, err := json.Marshal(i)
	if err != nil {
		return fmt.Errorf("itemledger/redis: encode item: %w", err)
	}

	keys := []string{s.itemKey(i.ID), s.indexKey(), s.statusKey(i.Status)}
	created, err := createScript.Run(ctx, s.rdb, keys, data, i.ID.SortKey()).Int()
	if err != nil {
		return fmt.Errorf("itemledger/redis: create item: %w", err)
	}
	if created == 0 {
		return itemledger.ErrDuplicateItem
	}
	return nil
}

func (s *Store) GetItem(ctx context.Context, itemID item.ID) (*item.Item, error) {
	data, err := s.rdb.Get(ctx, s.itemKey(itemID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, itemledger.ErrItemNotFound
		}
		return nil, fmt.Errorf("itemledger/redis: get item: %w", err)
	}
	return decodeItem(data)
}

func (s *Store) UpdateItem(ctx context.Context, i *item.Item) error {
	data, err := json.Marshal(i)
	if err != nil {
		return fmt.Errorf("itemledger/redis: encode item: %w", err)
	}

	keys := []string{s.itemKey(i.ID), s.statusKey(i.Status)}
	for _, st := range item.Statuses() {
		keys = append(keys, s.statusKey(st))
	}

	updated, err := updateScript.Run(ctx, s.rdb, keys, data, i.ID.SortKey()).Int()
	if err != nil {
		return fmt.Errorf("itemledger/redis: update item: %w", err)
	}
	if updated == 0 {
		return itemledger.ErrItemNotFound
	}
	return nil
}

func (s *Store) ListItems(ctx context.Context, opts item.ListOpts) ([]*item.Item, error) {
	index := s.indexKey()
	if opts.Status != "" {
		index = s.statusKey(opts.Status)
	}

	by := &redis.ZRangeBy{Min: "-", Max: "+"}
	if opts.Limit > 0 || opts.Offset > 0 {
		by.Offset = int64(opts.Offset)
		by.Count = int64(opts.Limit)
		if opts.Limit == 0 {
			by.Count = -1
		}
	}

	members, err := s.rdb.ZRangeByLex(ctx, index, by).Result()
	if err != nil {
		return nil, fmt.Errorf("itemledger/redis: list items: %w", err)
	}
	if len(members) == 0 {
		return []*item.Item{}, nil
	}

	keys := make([]string, len(members))
	for k, m := range members {
		keys[k] = s.prefix + "item:" + m
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("itemledger/redis: load items: %w", err)
	}

	result := make([]*item.Item, 0, len(values))
	for k, v := range values {
		raw, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("itemledger/redis: index entry %s has no item", members[k])
		}
		it, err := decodeItem([]byte(raw))
		if err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	return result, nil
}

// ==================== Controller binding ====================

func (s *Store) GetController(ctx context.Context) (access.Identity, error) {
	v, err := s.rdb.Get(ctx, s.controllerKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", itemledger.ErrNotFound
		}
		return "", fmt.Errorf("itemledger/redis: get controller: %w", err)
	}
	return access.Identity(v), nil
}

func (s *Store) SetController(ctx context.Context, controller access.Identity) error {
	if err := s.rdb.SetNX(ctx, s.controllerKey(), controller.String(), 0).Err(); err != nil {
		return fmt.Errorf("itemledger/redis: bind controller: %w", err)
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

func decodeItem(data []byte) (*item.Item, error) {
	var i item.Item
	if err := json.Unmarshal(data, &i); err != nil {
		return nil, fmt.Errorf("itemledger/redis: decode item: %w", err)
	}
	return &i, nil
}
