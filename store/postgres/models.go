package postgres

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/itemledger/access"
	"github.com/xraph/itemledger/item"
	"github.com/xraph/itemledger/types"
)

// ==================== Item models ====================

// Item ids are uint64; they are stored bit-for-bit in a BIGINT column.
type itemModel struct {
	grove.BaseModel `grove:"table:itemledger_items"`

	ID        int64     `grove:"id,pk"`
	Name      string    `grove:"name"`
	Price     int64     `grove:"price"`
	Quantity  int64     `grove:"quantity"`
	Status    string    `grove:"status"`
	CreatedAt time.Time `grove:"created_at"`
	UpdatedAt time.Time `grove:"updated_at"`
}

//nolint:gosec // casts between uint64 and int64 are bit-preserving
func toItemModel(i *item.Item) *itemModel {
	return &itemModel{
		ID:        int64(i.ID),
		Name:      i.Name,
		Price:     int64(i.Price),
		Quantity:  int64(i.Quantity),
		Status:    string(i.Status),
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

//nolint:gosec // casts between uint64 and int64 are bit-preserving
func fromItemModel(m *itemModel) *item.Item {
	return &item.Item{
		Entity: types.Entity{
			CreatedAt: m.CreatedAt.UTC(),
			UpdatedAt: m.UpdatedAt.UTC(),
		},
		ID:       item.ID(m.ID),
		Name:     m.Name,
		Price:    uint64(m.Price),
		Quantity: uint64(m.Quantity),
		Status:   item.Status(m.Status),
	}
}

// ==================== Controller models ====================

// controllerRowID is the primary key of the single controller row.
const controllerRowID = 1

type controllerModel struct {
	grove.BaseModel `grove:"table:itemledger_controller"`

	ID       int       `grove:"id,pk"`
	Identity string    `grove:"identity"`
	BoundAt  time.Time `grove:"bound_at"`
}

func toControllerModel(c access.Identity) *controllerModel {
	return &controllerModel{
		ID:       controllerRowID,
		Identity: c.String(),
		BoundAt:  now(),
	}
}
