// Package storetest provides a conformance suite for store.Store
// implementations. Every backend runs the same cases, so memory, SQL,
// document and key-value stores agree on duplicate, miss, ordering and
// controller-binding semantics.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/itemledger"
	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/store"
	"github.com/xraph/itemledger/types"
)

// Factory returns an empty, migrated store. The suite closes it.
type Factory func(t *testing.T) store.Store

// Run executes every conformance case against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"CreateAndGet", testCreateAndGet},
		{"DuplicateCreate", testDuplicateCreate},
		{"GetMissing", testGetMissing},
		{"UpdateExisting", testUpdateExisting},
		{"UpdateMissing", testUpdateMissing},
		{"ReturnsCopies", testReturnsCopies},
		{"ListOrderAndFilter", testListOrderAndFilter},
		{"ListPaging", testListPaging},
		{"ControllerBinding", testControllerBinding},
		{"Ping", testPing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tc.fn(t, s)
		})
	}
}

func newItem(itemID item.ID, name string, status item.Status) *item.Item {
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	return &item.Item{
		Entity:   types.NewEntity(at),
		ID:       itemID,
		Name:     name,
		Price:    100,
		Quantity: 50,
		Status:   status,
	}
}

func mustCreate(t *testing.T, s store.Store, i *item.Item) {
	t.Helper()
	if err := s.CreateItem(context.Background(), i); err != nil {
		t.Fatalf("CreateItem(%d): %v", i.ID, err)
	}
}

func testCreateAndGet(t *testing.T, s store.Store) {
	ctx := context.Background()
	want := newItem(1, "Widget", item.StatusCreated)
	mustCreate(t, s, want)

	got, err := s.GetItem(ctx, 1)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.ID != want.ID || got.Name != want.Name || got.Price != want.Price ||
		got.Quantity != want.Quantity || got.Status != want.Status {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func testDuplicateCreate(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustCreate(t, s, newItem(7, "Widget", item.StatusCreated))

	err := s.CreateItem(ctx, newItem(7, "Gadget", item.StatusShipped))
	if !errors.Is(err, itemledger.ErrDuplicateItem) {
		t.Fatalf("second CreateItem: got %v, want ErrDuplicateItem", err)
	}

	got, err := s.GetItem(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Widget" || got.Status != item.StatusCreated {
		t.Errorf("duplicate create overwrote the record: %+v", got)
	}
}

func testGetMissing(t *testing.T, s store.Store) {
	if _, err := s.GetItem(context.Background(), 404); !errors.Is(err, itemledger.ErrItemNotFound) {
		t.Errorf("got %v, want ErrItemNotFound", err)
	}
}

func testUpdateExisting(t *testing.T, s store.Store) {
	ctx := context.Background()
	i := newItem(3, "Widget", item.StatusCreated)
	mustCreate(t, s, i)

	i.Price = 120
	i.Quantity = 75
	i.Status = item.StatusDelivered
	i.Touch(i.UpdatedAt.Add(time.Minute))
	if err := s.UpdateItem(ctx, i); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	got, err := s.GetItem(ctx, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.Price != 120 || got.Quantity != 75 || got.Status != item.StatusDelivered || got.Name != "Widget" {
		t.Errorf("after update: %+v", got)
	}
}

func testUpdateMissing(t *testing.T, s store.Store) {
	err := s.UpdateItem(context.Background(), newItem(99, "Ghost", item.StatusCreated))
	if !errors.Is(err, itemledger.ErrItemNotFound) {
		t.Fatalf("got %v, want ErrItemNotFound", err)
	}
	if _, err := s.GetItem(context.Background(), 99); !errors.Is(err, itemledger.ErrItemNotFound) {
		t.Errorf("update of a missing id created it: %v", err)
	}
}

func testReturnsCopies(t *testing.T, s store.Store) {
	ctx := context.Background()
	i := newItem(5, "Widget", item.StatusCreated)
	mustCreate(t, s, i)
	i.Quantity = 1

	got, err := s.GetItem(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	got.Quantity = 2

	again, err := s.GetItem(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if again.Quantity != 50 {
		t.Errorf("stored record aliased a caller copy: quantity %d", again.Quantity)
	}
}

func testListOrderAndFilter(t *testing.T, s store.Store) {
	ctx := context.Background()
	mustCreate(t, s, newItem(30, "c", item.StatusShipped))
	mustCreate(t, s, newItem(2, "a", item.StatusCreated))
	mustCreate(t, s, newItem(11, "b", item.StatusShipped))

	all, err := s.ListItems(ctx, item.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(all); !equalIDs(got, []item.ID{2, 11, 30}) {
		t.Errorf("ListItems order: got %v", got)
	}

	shipped, err := s.ListItems(ctx, item.ListOpts{Status: item.StatusShipped})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(shipped); !equalIDs(got, []item.ID{11, 30}) {
		t.Errorf("ListItems(shipped): got %v", got)
	}
}

func testListPaging(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, itemID := range []item.ID{1, 2, 3, 4, 5} {
		mustCreate(t, s, newItem(itemID, "x", item.StatusCreated))
	}

	tests := []struct {
		name string
		opts item.ListOpts
		want []item.ID
	}{
		{"limit", item.ListOpts{Limit: 2}, []item.ID{1, 2}},
		{"offset", item.ListOpts{Offset: 3}, []item.ID{4, 5}},
		{"window", item.ListOpts{Limit: 2, Offset: 1}, []item.ID{2, 3}},
		{"past end", item.ListOpts{Offset: 10}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListItems(ctx, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("got %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func testControllerBinding(t *testing.T, s store.Store) {
	ctx := context.Background()
	if _, err := s.GetController(ctx); !errors.Is(err, itemledger.ErrNotFound) {
		t.Fatalf("unbound GetController: got %v, want ErrNotFound", err)
	}

	if err := s.SetController(ctx, "ops@acme"); err != nil {
		t.Fatalf("SetController: %v", err)
	}
	if err := s.SetController(ctx, "ops@acme"); err != nil {
		t.Errorf("rebinding the same controller: %v", err)
	}
	if err := s.SetController(ctx, "mallory"); !errors.Is(err, itemledger.ErrControllerMismatch) {
		t.Errorf("rebinding another controller: got %v, want ErrControllerMismatch", err)
	}

	got, err := s.GetController(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != access.Identity("ops@acme") {
		t.Errorf("controller: got %q", got)
	}
}

func testPing(t *testing.T, s store.Store) {
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func ids(items []*item.Item) []item.ID {
	var out []item.ID
	for _, i := range items {
		out = append(out, i.ID)
	}
	return out
}

func equalIDs(a, b []item.ID) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if a[k] != b[k] {
			return false
		}
	}
	return true
}
