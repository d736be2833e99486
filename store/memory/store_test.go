package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/itemledger"
	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/store"
	"github.com/xraph/itemledger/store/memory"
	"github.com/xraph/itemledger/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(*testing.T) store.Store { return memory.New() })
}

func TestClosedStore(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	if err := s.Ping(ctx); !errors.Is(err, itemledger.ErrStoreClosed) {
		t.Errorf("Ping: got %v", err)
	}
	if err := s.CreateItem(ctx, &item.Item{ID: 1}); !errors.Is(err, itemledger.ErrStoreClosed) {
		t.Errorf("CreateItem: got %v", err)
	}
	if _, err := s.GetItem(ctx, 1); !errors.Is(err, itemledger.ErrStoreClosed) {
		t.Errorf("GetItem: got %v", err)
	}
}
