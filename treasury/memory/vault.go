// Package memory provides an in-process treasury.Vault.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/treasury"
	"github.com/xraph/itemledger/types"
)

// compile-time interface check
var _ treasury.Vault = (*Vault)(nil)

// Vault keeps a single-currency balance and remembers what it paid out.
type Vault struct {
	mu      sync.Mutex
	balance types.Money
	paid    map[access.Identity]types.Money
}

// New creates an empty vault in currency.
func New(currency string) *Vault {
	return &Vault{
		balance: types.Zero(currency),
		paid:    make(map[access.Identity]types.Money),
	}
}

// Deposit credits the vault.
func (v *Vault) Deposit(_ context.Context, amount types.Money) error {
	if amount.IsNegative() {
		return fmt.Errorf("treasury/memory: negative deposit %s", amount)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	next, err := v.balance.Add(amount)
	if err != nil {
		return fmt.Errorf("treasury/memory: deposit: %w", err)
	}
	v.balance = next
	return nil
}

// Balance implements treasury.Vault.
func (v *Vault) Balance(_ context.Context) (types.Money, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balance, nil
}

// Transfer implements treasury.Vault.
func (v *Vault) Transfer(_ context.Context, to access.Identity, amount types.Money) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if amount.IsNegative() {
		return fmt.Errorf("treasury/memory: negative transfer %s", amount)
	}
	rest, err := v.balance.Subtract(amount)
	if err != nil {
		return fmt.Errorf("treasury/memory: transfer: %w", err)
	}
	if rest.IsNegative() {
		return fmt.Errorf("%w: have %s, want %s", treasury.ErrInsufficientFunds, v.balance, amount)
	}

	total, ok := v.paid[to]
	if !ok {
		total = types.Zero(amount.Currency)
	}
	total, err = total.Add(amount)
	if err != nil {
		return fmt.Errorf("treasury/memory: transfer: %w", err)
	}

	v.balance = rest
	v.paid[to] = total
	return nil
}

// PaidTo returns the total transferred to identity.
func (v *Vault) PaidTo(to access.Identity) types.Money {
	v.mu.Lock()
	defer v.mu.Unlock()

	if m, ok := v.paid[to]; ok {
		return m
	}
	return types.Zero(v.balance.Currency)
}
