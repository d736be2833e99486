package itemledger

import (
	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/types"
)

// Re-export common types for convenience so users don't have to import the
// leaf packages for everyday calls.

// Identity is re-exported from access package.
type Identity = access.Identity

// Item is re-exported from item package.
type Item = item.Item

// ItemID is re-exported from item package.
type ItemID = item.ID

// Status is re-exported from item package.
type Status = item.Status

// Money is re-exported from types package.
type Money = types.Money

// Re-export statuses
const (
	StatusCreated   = item.StatusCreated
	StatusShipped   = item.StatusShipped
	StatusDelivered = item.StatusDelivered
	StatusCanceled  = item.StatusCanceled
)
