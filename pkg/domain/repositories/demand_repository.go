package repositories

import (
	"context"
	"time"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// DemandRepository provides access to customer orders and the master production schedule
type DemandRepository interface {
	// OpenOrderLines returns open customer-order lines due within [from, to]
	OpenOrderLines(ctx context.Context, from, to time.Time) ([]*entities.CustomerOrderLine, error)
	// MPSLines returns master schedule lines dated within [from, to], any status
	MPSLines(ctx context.Context, from, to time.Time) ([]*entities.MPSLine, error)
	CustomerOrderLines(ctx context.Context, orderID string) ([]*entities.CustomerOrderLine, error)
}
