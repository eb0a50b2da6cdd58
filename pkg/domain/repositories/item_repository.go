package repositories

import (
	"context"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// ItemRepository provides access to item master data.
// GetItem wraps entities.ErrNotFound when the item does not exist.
type ItemRepository interface {
	GetItem(ctx context.Context, ref entities.ItemRef) (entities.Item, error)
	ListItems(ctx context.Context) ([]entities.Item, error)
}
