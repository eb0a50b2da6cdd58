package repositories

//go:generate mockgen -source=inventory_repository.go -destination=mocks/inventory_repository.go -package=mock_repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// InventoryRepository is the inventory ledger as seen by planning and production.
// Available quantity is on hand minus reserved.
type InventoryRepository interface {
	GetAvailableQuantity(ctx context.Context, item entities.ItemRef) (decimal.Decimal, error)
	Reserve(ctx context.Context, item entities.ItemRef, quantity decimal.Decimal, reference string) error
	Issue(ctx context.Context, item entities.ItemRef, quantity decimal.Decimal, reference string) error
	Transfer(ctx context.Context, item entities.ItemRef, quantity decimal.Decimal, fromLocation, toLocation string) error
}
