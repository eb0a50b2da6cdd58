package repositories

//go:generate mockgen -source=run_repository.go -destination=mocks/run_repository.go -package=mock_repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// RunRepository persists MRP runs and the suggestions they produce
type RunRepository interface {
	CreateRun(ctx context.Context, run *entities.MRPRun) error
	UpdateRun(ctx context.Context, run *entities.MRPRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*entities.MRPRun, error)
	// LatestCompletedRun wraps entities.ErrNoCompletedRun when no run has completed
	LatestCompletedRun(ctx context.Context) (*entities.MRPRun, error)
	SavePlannedOrders(ctx context.Context, orders []*entities.PlannedOrder) error
	PlannedOrders(ctx context.Context, runID uuid.UUID) ([]*entities.PlannedOrder, error)
}
