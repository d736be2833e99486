package memory_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/xraph/itemledger/treasury"
	"github.com/xraph/itemledger/treasury/memory"
	"github.com/xraph/itemledger/types"
)

func TestVaultDepositAndTransfer(t *testing.T) {
	ctx := context.Background()
	v := memory.New("usd")

	if err := v.Deposit(ctx, types.New(500, "usd")); err != nil {
		t.Fatal(err)
	}
	if err := v.Deposit(ctx, types.New(250, "usd")); err != nil {
		t.Fatal(err)
	}

	bal, err := v.Balance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !bal.Equal(types.New(750, "usd")) {
		t.Fatalf("balance: got %v, want 750 USD", bal)
	}

	if err := v.Transfer(ctx, "ops@acme", bal); err != nil {
		t.Fatal(err)
	}
	bal, _ = v.Balance(ctx)
	if !bal.IsZero() {
		t.Errorf("balance after sweep: got %v", bal)
	}
	if got := v.PaidTo("ops@acme"); !got.Equal(types.New(750, "usd")) {
		t.Errorf("PaidTo: got %v", got)
	}
	if got := v.PaidTo("nobody"); !got.IsZero() {
		t.Errorf("PaidTo(nobody): got %v", got)
	}
}

func TestVaultRejects(t *testing.T) {
	ctx := context.Background()
	v := memory.New("usd")
	_ = v.Deposit(ctx, types.New(100, "usd"))

	if err := v.Deposit(ctx, types.New(1, "eur")); !errors.Is(err, types.ErrCurrencyMismatch) {
		t.Errorf("foreign deposit: got %v", err)
	}
	if err := v.Deposit(ctx, types.New(-1, "usd")); err == nil {
		t.Error("negative deposit: expected error")
	}
	if err := v.Transfer(ctx, "ops", types.New(101, "usd")); !errors.Is(err, treasury.ErrInsufficientFunds) {
		t.Errorf("overdraw: got %v", err)
	}

	bal, _ := v.Balance(ctx)
	if !bal.Equal(types.New(100, "usd")) {
		t.Errorf("failed calls changed the balance: %v", bal)
	}
}

func TestVaultDepositOverflow(t *testing.T) {
	ctx := context.Background()
	v := memory.New("usd")

	if err := v.Deposit(ctx, types.New(math.MaxInt64, "usd")); err != nil {
		t.Fatal(err)
	}
	if err := v.Deposit(ctx, types.New(1, "usd")); !errors.Is(err, types.ErrOverflow) {
		t.Fatalf("got %v, want ErrOverflow", err)
	}

	balance, err := v.Balance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if balance.Amount != math.MaxInt64 {
		t.Errorf("balance changed to %s", balance)
	}
}
