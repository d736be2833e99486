package item

import "context"

// Store persists items. There is no delete: once an id is
// present it stays present.
type Store interface {
	CreateItem(ctx context.Context, i *Item) error
	GetItem(ctx context.Context, itemID ID) (*Item, error)
	UpdateItem(ctx context.Context, i *Item) error
	ListItems(ctx context.Context, opts ListOpts) ([]*Item, error)
}
