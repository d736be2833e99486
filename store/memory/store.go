// Package memory provides an in-process store.Store backed by maps.
// It is the default for tests and single-process deployments.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xraph/itemledger"
	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/store"
)

// compile-time interface check
var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Item storage
	items map[item.ID]*item.Item

	controller access.Identity
	closed     bool
}

func New() *Store {
	return &Store{
		items: make(map[item.ID]*item.Item),
	}
}

// Item Store implementation
func (s *Store) CreateItem(_ context.Context, i *item.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return itemledger.ErrStoreClosed
	}
	if _, exists := s.items[i.ID]; exists {
		return itemledger.ErrDuplicateItem
	}
	s.items[i.ID] = i.Clone()
	return nil
}

func (s *Store) GetItem(_ context.Context, itemID item.ID) (*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, itemledger.ErrStoreClosed
	}
	if i, ok := s.items[itemID]; ok {
		return i.Clone(), nil
	}
	return nil, itemledger.ErrItemNotFound
}

func (s *Store) UpdateItem(_ context.Context, i *item.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return itemledger.ErrStoreClosed
	}
	if _, exists := s.items[i.ID]; !exists {
		return itemledger.ErrItemNotFound
	}
	s.items[i.ID] = i.Clone()
	return nil
}

func (s *Store) ListItems(_ context.Context, opts item.ListOpts) ([]*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, itemledger.ErrStoreClosed
	}

	result := make([]*item.Item, 0, len(s.items))
	for _, i := range s.items {
		if opts.Status == "" || i.Status == opts.Status {
			result = append(result, i.Clone())
		}
	}
	sort.Slice(result, func(a, b int) bool { return result[a].ID < result[b].ID })

	// Apply limit/offset
	start := opts.Offset
	if start > len(result) {
		start = len(result)
	}
	end := start + opts.Limit
	if opts.Limit == 0 || end > len(result) {
		end = len(result)
	}

	return result[start:end], nil
}

// Controller binding
func (s *Store) GetController(_ context.Context) (access.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", itemledger.ErrStoreClosed
	}
	if s.controller.IsZero() {
		return "", itemledger.ErrNotFound
	}
	return s.controller, nil
}

func (s *Store) SetController(_ context.Context, controller access.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return itemledger.ErrStoreClosed
	}
	if !s.controller.IsZero() && s.controller != controller {
		return itemledger.ErrControllerMismatch
	}
	s.controller = controller
	return nil
}

// Core methods
func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return itemledger.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
