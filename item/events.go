package item

import (
	"time"

	"github.com/xraph/itemledger/id"
)

// Added is emitted once after a successful create.
type Added struct {
	EventID  id.EventID `json:"event_id"`
	ItemID   ID         `json:"item_id"`
	Name     string     `json:"name"`
	Price    uint64     `json:"price"`
	Quantity uint64     `json:"quantity"`
	At       time.Time  `json:"at"`
}

// Updated is emitted once after a successful price/quantity update.
type Updated struct {
	EventID  id.EventID `json:"event_id"`
	ItemID   ID         `json:"item_id"`
	Price    uint64     `json:"price"`
	Quantity uint64     `json:"quantity"`
	Status   Status     `json:"status"`
	At       time.Time  `json:"at"`
}

// StatusUpdated is emitted once after a successful status change.
type StatusUpdated struct {
	EventID id.EventID `json:"event_id"`
	ItemID  ID         `json:"item_id"`
	Status  Status     `json:"status"`
	At      time.Time  `json:"at"`
}
