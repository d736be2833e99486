// Package item defines catalog records, their lifecycle statuses, and the
// notifications emitted when they change.
package item

import (
	"fmt"
	"strconv"

	"github.com/xraph/itemledger/types"
)

// ID identifies an item. It is chosen by the controller, never generated.
type ID uint64

// String returns the decimal form of the id.
func (i ID) String() string { return strconv.FormatUint(uint64(i), 10) }

// SortKey returns the id zero-padded to 20 digits, so that byte order of
// keys equals numeric order of ids. Key-value and document stores key
// items by it.
func (i ID) SortKey() string { return fmt.Sprintf("%020d", uint64(i)) }

// ParseID parses a decimal item id. Zero-padded sort keys are accepted.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("item: parse id %q: %w", s, err)
	}
	return ID(v), nil
}

// Status is the lifecycle state of an item.
//
// Any status may be set from any other, including moving a delivered or
// canceled item back to created. New items always start as StatusCreated.
type Status string

const (
	StatusCreated   Status = "created"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCanceled  Status = "canceled"
)

// Statuses lists every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusCreated, StatusShipped, StatusDelivered, StatusCanceled}
}

// IsValid reports whether s is one of the four lifecycle statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusCreated, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	default:
		return false
	}
}

// ParseStatus converts a string into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.IsValid() {
		return "", fmt.Errorf("item: unknown status %q", s)
	}
	return st, nil
}

// Item is a catalog entry. Price is denominated in the oracle's native unit
// and is always the reading taken by the last create or update.
type Item struct {
	types.Entity
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Price    uint64 `json:"price"`
	Quantity uint64 `json:"quantity"`
	Status   Status `json:"status"`
}

// Clone returns a copy that shares no state with i.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// ListOpts filters and pages ListItems. Results are ordered by ascending id.
type ListOpts struct {
	Status Status
	Limit  int
	Offset int
}
