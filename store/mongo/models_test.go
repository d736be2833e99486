package mongo

import (
	"testing"
	"time"

	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/types"
)

func TestItemModelRoundTrip(t *testing.T) {
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	for _, itemID := range []item.ID{0, 7, 1 << 63, ^item.ID(0)} {
		in := &item.Item{
			Entity:   types.NewEntity(at),
			ID:       itemID,
			Name:     "Widget",
			Price:    ^uint64(0),
			Quantity: 75,
			Status:   item.StatusCanceled,
		}
		out, err := fromItemModel(toItemModel(in))
		if err != nil {
			t.Fatal(err)
		}
		if *out != *in {
			t.Errorf("id %d: got %+v, want %+v", itemID, out, in)
		}
	}
}

func TestItemKeysSortNumerically(t *testing.T) {
	a := toItemModel(&item.Item{ID: 9})
	b := toItemModel(&item.Item{ID: 10})
	if a.ID >= b.ID {
		t.Errorf("_id %q sorts after %q", a.ID, b.ID)
	}
}

func TestFromItemModelRejectsBadKey(t *testing.T) {
	if _, err := fromItemModel(&itemModel{ID: "not-a-number"}); err == nil {
		t.Error("expected error for malformed _id")
	}
}
