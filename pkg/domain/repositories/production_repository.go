package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// ProductionRepository persists production orders and their scheduled operations
type ProductionRepository interface {
	CreateOrder(ctx context.Context, order *entities.ProductionOrder) error
	GetOrder(ctx context.Context, id uuid.UUID) (*entities.ProductionOrder, error)
	UpdateOrder(ctx context.Context, order *entities.ProductionOrder) error
	SaveOperations(ctx context.Context, ops []*entities.ProductionOperation) error
	OperationsForOrder(ctx context.Context, orderID uuid.UUID) ([]*entities.ProductionOperation, error)
	// DeleteOperations removes every operation of an order, before it is rescheduled
	DeleteOperations(ctx context.Context, orderID uuid.UUID) error
	// CountOperationsOn counts operations occupying the given day at a work center
	CountOperationsOn(ctx context.Context, workCenterID string, day time.Time) (int, error)
}
