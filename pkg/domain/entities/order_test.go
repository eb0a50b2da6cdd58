package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestPlannedOrder_Validation(t *testing.T) {
	runID := uuid.New()
	releaseDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	needDate := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	validOrder, err := NewPlannedOrder(runID, MaterialRef("M1"), PurchaseOrder, decimal.NewFromInt(5), releaseDate, needDate, PriorityNormal)
	if err != nil {
		t.Fatalf("Expected valid order creation to succeed: %v", err)
	}
	if validOrder.Status != SuggestionStatus {
		t.Errorf("Expected status %s, got %s", SuggestionStatus, validOrder.Status)
	}
	if validOrder.RunID != runID {
		t.Errorf("Expected run id %s, got %s", runID, validOrder.RunID)
	}

	testCases := []struct {
		name        string
		item        ItemRef
		quantity    decimal.Decimal
		releaseDate time.Time
		needDate    time.Time
		expectError string
	}{
		{"empty item", ItemRef{}, decimal.NewFromInt(5), releaseDate, needDate, "item cannot be empty"},
		{"zero quantity", MaterialRef("M1"), decimal.Zero, releaseDate, needDate, "quantity must be positive, got 0"},
		{"negative quantity", MaterialRef("M1"), decimal.NewFromInt(-1), releaseDate, needDate, "quantity must be positive, got -1"},
		{"release after need", MaterialRef("M1"), decimal.NewFromInt(5), needDate, releaseDate, "release date 2025-01-10 cannot be after need date 2025-01-01"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPlannedOrder(runID, tc.item, PurchaseOrder, tc.quantity, tc.releaseDate, tc.needDate, PriorityNormal)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		days     int
		expected Priority
	}{
		{-2, PriorityUrgent},
		{0, PriorityUrgent},
		{3, PriorityUrgent},
		{4, PriorityHigh},
		{7, PriorityHigh},
		{8, PriorityNormal},
		{30, PriorityNormal},
	}

	for _, tt := range tests {
		if got := PriorityFor(tt.days); got != tt.expected {
			t.Errorf("PriorityFor(%d): expected %s, got %s", tt.days, tt.expected, got)
		}
	}
}

func TestOrderType_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Type OrderType `json:"type"`
	}{ProductionOrderType})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"type":"production"}` {
		t.Errorf("Expected production by name, got %s", data)
	}

	var decoded struct {
		Type OrderType `json:"type"`
	}
	if err := json.Unmarshal([]byte(`{"type":"purchase"}`), &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Type != PurchaseOrder {
		t.Errorf("Expected purchase, got %s", decoded.Type)
	}
}
