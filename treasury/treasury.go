// Package treasury is the custody boundary for funds held by the ledger.
//
// The ledger only ever moves the whole balance to the controller. How funds
// arrive in a Vault and how a Transfer settles are the Vault's concern.
package treasury

import (
	"context"
	"errors"
	"time"

	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/id"
	"github.com/xraph/itemledger/types"
)

// ErrInsufficientFunds is returned by a Vault asked to move more than it holds.
var ErrInsufficientFunds = errors.New("treasury: insufficient funds")

// Vault holds the ledger's balance.
type Vault interface {
	Balance(ctx context.Context) (types.Money, error)
	Transfer(ctx context.Context, to access.Identity, amount types.Money) error
}

// Withdrawal records a completed sweep of the vault.
type Withdrawal struct {
	ID     id.WithdrawalID `json:"id"`
	To     access.Identity `json:"to"`
	Amount types.Money     `json:"amount"`
	At     time.Time       `json:"at"`
}
