package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
)

// ItemRepository provides in-memory item storage
type ItemRepository struct {
	items    []entities.Item
	itemsMap map[entities.ItemRef]int
}

// NewItemRepository creates a new in-memory item repository
func NewItemRepository(expectedItems int) *ItemRepository {
	return &ItemRepository{
		items:    make([]entities.Item, 0, expectedItems),
		itemsMap: make(map[entities.ItemRef]int, expectedItems),
	}
}

// Verify interface compliance
var _ repositories.ItemRepository = (*ItemRepository)(nil)

// LoadItems validates and adds items, rejecting duplicates
func (r *ItemRepository) LoadItems(items []entities.Item) error {
	for _, item := range items {
		if err := r.AddItem(item); err != nil {
			return err
		}
	}
	return nil
}

// AddItem adds an item to the repository
func (r *ItemRepository) AddItem(item entities.Item) error {
	if err := entities.ValidatePlanning(item); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}
	ref := item.Ref()
	if _, exists := r.itemsMap[ref]; exists {
		return fmt.Errorf("item %s already exists", ref)
	}
	r.itemsMap[ref] = len(r.items)
	r.items = append(r.items, item)
	return nil
}

// GetItem returns item master data for a reference
func (r *ItemRepository) GetItem(ctx context.Context, ref entities.ItemRef) (entities.Item, error) {
	index, exists := r.itemsMap[ref]
	if !exists {
		return nil, fmt.Errorf("item %s: %w", ref, entities.ErrNotFound)
	}
	return r.items[index], nil
}

// ListItems returns all items ordered by type then id
func (r *ItemRepository) ListItems(ctx context.Context) ([]entities.Item, error) {
	items := append([]entities.Item(nil), r.items...)
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].Ref(), items[j].Ref()
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.ID < b.ID
	})
	return items, nil
}
