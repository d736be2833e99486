package mongo

import (
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/types"
)

// ==================== Item models ====================

// Items are keyed by item.ID.SortKey so that sorting on _id yields ascending
// numeric id order. BSON has no unsigned integers; price and quantity are
// stored bit-for-bit as int64.
type itemModel struct {
	grove.BaseModel `grove:"table:itemledger_items"`

	ID        string    `grove:"id,pk"      bson:"_id"`
	Name      string    `grove:"name"       bson:"name"`
	Price     int64     `grove:"price"      bson:"price"`
	Quantity  int64     `grove:"quantity"   bson:"quantity"`
	Status    string    `grove:"status"     bson:"status"`
	CreatedAt time.Time `grove:"created_at" bson:"created_at"`
	UpdatedAt time.Time `grove:"updated_at" bson:"updated_at"`
}

//nolint:gosec // casts between uint64 and int64 are bit-preserving
func toItemModel(i *item.Item) *itemModel {
	return &itemModel{
		ID:        i.ID.SortKey(),
		Name:      i.Name,
		Price:     int64(i.Price),
		Quantity:  int64(i.Quantity),
		Status:    string(i.Status),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

//nolint:gosec // casts between uint64 and int64 are bit-preserving
func fromItemModel(m *itemModel) (*item.Item, error) {
	itemID, err := item.ParseID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("itemledger/mongo: item key: %w", err)
	}
	return &item.Item{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt.UTC(),
			UpdatedAt: m.UpdatedAt.UTC(),
		},
		ID:       itemID,
		Name:     m.Name,
		Price:    uint64(m.Price),
		Quantity: uint64(m.Quantity),
		Status:   item.Status(m.Status),
	}, nil
}

// ==================== Controller models ====================

// controllerDocID is the _id of the single controller document.
const controllerDocID = "controller"

type controllerModel struct {
	grove.BaseModel `grove:"table:itemledger_controller"`

	ID       string    `grove:"id,pk"    bson:"_id"`
	Identity string    `grove:"identity" bson:"identity"`
	BoundAt  time.Time `grove:"bound_at" bson:"bound_at"`
}

func toControllerModel(c access.Identity) *controllerModel {
	return &controllerModel{
		ID:       controllerDocID,
		Identity: c.String(),
		BoundAt:  now(),
	}
}
