package repositories

//go:generate mockgen -source=bom_repository.go -destination=mocks/bom_repository.go -package=mock_repositories

import (
	"context"
	"time"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// BOMRepository provides access to Bill of Materials data
type BOMRepository interface {
	// GetActiveBOM returns the bill effective for the parent on asOf, or nil when there is none
	GetActiveBOM(ctx context.Context, parent entities.ItemRef, asOf time.Time) (*entities.BOM, error)
	GetBOMDetails(ctx context.Context, bomID string) ([]*entities.BOMLine, error)
	GetAllBOMLines(ctx context.Context) ([]*entities.BOMLine, error)
}
