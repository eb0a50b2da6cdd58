package repositories

import (
	"context"
	"time"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// RoutingRepository returns the manufacturing steps of an item sorted by sequence
type RoutingRepository interface {
	GetRouting(ctx context.Context, item entities.ItemRef) ([]*entities.RoutingOperation, error)
}

// WorkCenterRepository provides work centers and their calendars
type WorkCenterRepository interface {
	GetWorkCenter(ctx context.Context, id string) (*entities.WorkCenter, error)
	// ShiftFor returns the shift of the work center on a day; ok is false on non-working days
	ShiftFor(ctx context.Context, workCenterID string, day time.Time) (shift entities.Shift, ok bool, err error)
}
