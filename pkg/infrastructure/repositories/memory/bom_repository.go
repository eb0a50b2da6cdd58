package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
)

// BOMRepository provides in-memory bill of materials storage
type BOMRepository struct {
	boms     map[entities.ItemRef][]*entities.BOM
	bomsByID map[string]*entities.BOM
	lines    map[string][]*entities.BOMLine
	allLines []*entities.BOMLine
}

// NewBOMRepository creates a new in-memory BOM repository
func NewBOMRepository() *BOMRepository {
	return &BOMRepository{
		boms:     make(map[entities.ItemRef][]*entities.BOM),
		bomsByID: make(map[string]*entities.BOM),
		lines:    make(map[string][]*entities.BOMLine),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// AddBOM registers a bill header
func (r *BOMRepository) AddBOM(bom *entities.BOM) error {
	if bom.ID == "" {
		return fmt.Errorf("BOM id cannot be empty")
	}
	if _, exists := r.bomsByID[bom.ID]; exists {
		return fmt.Errorf("BOM %s already exists", bom.ID)
	}
	r.bomsByID[bom.ID] = bom
	r.boms[bom.Parent] = append(r.boms[bom.Parent], bom)
	return nil
}

// AddLine attaches a line to a registered bill
func (r *BOMRepository) AddLine(line *entities.BOMLine) error {
	bom, exists := r.bomsByID[line.BOMID]
	if !exists {
		return fmt.Errorf("BOM %s: %w", line.BOMID, entities.ErrNotFound)
	}
	if bom.Parent != line.Parent {
		return fmt.Errorf("line parent %s does not match BOM %s parent %s", line.Parent, bom.ID, bom.Parent)
	}
	r.lines[line.BOMID] = append(r.lines[line.BOMID], line)
	r.allLines = append(r.allLines, line)
	return nil
}

// LoadBOMs adds headers then lines
func (r *BOMRepository) LoadBOMs(boms []*entities.BOM, lines []*entities.BOMLine) error {
	for _, bom := range boms {
		if err := r.AddBOM(bom); err != nil {
			return err
		}
	}
	for _, line := range lines {
		if err := r.AddLine(line); err != nil {
			return err
		}
	}
	return nil
}

// GetActiveBOM returns the bill effective on asOf, or nil
func (r *BOMRepository) GetActiveBOM(ctx context.Context, parent entities.ItemRef, asOf time.Time) (*entities.BOM, error) {
	return entities.SelectActiveBOM(r.boms[parent], asOf), nil
}

// GetBOMDetails returns the lines of a bill
func (r *BOMRepository) GetBOMDetails(ctx context.Context, bomID string) ([]*entities.BOMLine, error) {
	if _, exists := r.bomsByID[bomID]; !exists {
		return nil, fmt.Errorf("BOM %s: %w", bomID, entities.ErrNotFound)
	}
	return append([]*entities.BOMLine(nil), r.lines[bomID]...), nil
}

// GetAllBOMLines returns every line of every bill in load order
func (r *BOMRepository) GetAllBOMLines(ctx context.Context) ([]*entities.BOMLine, error) {
	return append([]*entities.BOMLine(nil), r.allLines...), nil
}
