package memory

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

func TestItemRepository_AddAndGet(t *testing.T) {
	repo := NewItemRepository(10)
	ctx := context.Background()

	material := &entities.Material{
		ID:                "STEEL",
		Description:       "Steel sheet",
		UnitOfMeasure:     "KG",
		DefaultSupplierID: "SUP-1",
		PlanningAttributes: entities.PlanningAttributes{
			LeadTimeDays: 5,
			LotSizeRule:  entities.FixedLot,
			FixedLotQty:  decimal.NewFromInt(500),
		},
	}
	if err := repo.AddItem(material); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	// same id, different variant, is a different item
	if err := repo.AddItem(&entities.Product{ID: "STEEL"}); err != nil {
		t.Fatalf("Failed to add product sharing a material id: %v", err)
	}

	retrieved, err := repo.GetItem(ctx, entities.MaterialRef("STEEL"))
	if err != nil {
		t.Fatalf("Failed to get item: %v", err)
	}
	got, ok := retrieved.(*entities.Material)
	if !ok {
		t.Fatalf("Expected *entities.Material, got %T", retrieved)
	}
	if got.DefaultSupplierID != "SUP-1" {
		t.Errorf("Expected supplier SUP-1, got %s", got.DefaultSupplierID)
	}
	if got.Planning().LeadTimeDays != 5 {
		t.Errorf("Expected lead time 5, got %d", got.Planning().LeadTimeDays)
	}

	items, _ := repo.ListItems(ctx)
	if len(items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(items))
	}
	if items[0].Ref().Type != entities.MaterialItem {
		t.Errorf("Expected materials listed first, got %s", items[0].Ref())
	}
}

func TestItemRepository_Errors(t *testing.T) {
	repo := NewItemRepository(1)

	if err := repo.AddItem(&entities.Material{ID: "M1"}); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	err := repo.AddItem(&entities.Material{ID: "M1", Description: "again"})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected duplicate error, got %v", err)
	}

	err = repo.AddItem(&entities.Material{ID: "M2", PlanningAttributes: entities.PlanningAttributes{LeadTimeDays: -1}})
	if err == nil || !strings.Contains(err.Error(), "lead time cannot be negative") {
		t.Errorf("Expected validation error, got %v", err)
	}

	_, err = repo.GetItem(context.Background(), entities.ProductRef("NOPE"))
	if !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
