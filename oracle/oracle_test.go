package oracle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/itemledger/oracle"
)

func TestStatic(t *testing.T) {
	ctx := context.Background()
	o := oracle.NewStatic(100)

	r, err := o.LatestPrice(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if r.Price != 100 || r.RoundID != 1 || r.AnsweredInRound != 1 {
		t.Errorf("first reading: %+v", r)
	}

	o.Set(120)
	r, err = o.LatestPrice(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if r.Price != 120 || r.RoundID != 2 {
		t.Errorf("second reading: %+v", r)
	}
	if r.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be stamped")
	}
}

func TestStaticFail(t *testing.T) {
	ctx := context.Background()
	o := oracle.NewStatic(100)
	boom := errors.New("feed down")

	o.Fail(boom)
	if _, err := o.LatestPrice(ctx); !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}

	o.Set(90)
	r, err := o.LatestPrice(ctx)
	if err != nil {
		t.Fatalf("Set should clear the failure: %v", err)
	}
	if r.Price != 90 {
		t.Errorf("price: got %d, want 90", r.Price)
	}
}

func TestFunc(t *testing.T) {
	calls := 0
	o := oracle.Func(func(context.Context) (oracle.Reading, error) {
		calls++
		return oracle.Reading{Price: -5}, nil
	})

	r, err := o.LatestPrice(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if r.Price != -5 || calls != 1 {
		t.Errorf("got %+v after %d calls", r, calls)
	}
}
