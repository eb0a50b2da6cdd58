package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

func line(bomID string, parent, component entities.ItemRef, qtyPer int64) *entities.BOMLine {
	return &entities.BOMLine{
		BOMID:     bomID,
		Parent:    parent,
		Component: component,
		QtyPer:    decimal.NewFromInt(qtyPer),
	}
}

func countCode(issues []entities.PlanningIssue, code string) int {
	n := 0
	for _, issue := range issues {
		if issue.Code == code {
			n++
		}
	}
	return n
}

func TestBOMValidator_DetectSimpleCycle(t *testing.T) {
	a, b := entities.ProductRef("A"), entities.ProductRef("B")
	lines := []*entities.BOMLine{
		line("BOM-A", a, b, 1),
		line("BOM-B", b, a, 1),
	}

	result := NewBOMValidator().ValidateBOM(lines, nil)

	if !result.HasCycles {
		t.Fatal("Expected cycle to be detected")
	}
	if len(result.CyclePaths) != 1 {
		t.Fatalf("Expected 1 cycle path, got %d", len(result.CyclePaths))
	}
	if got := formatPath(result.CyclePaths[0]); got != "product:A -> product:B -> product:A" {
		t.Errorf("Expected cycle A -> B -> A, got %s", got)
	}
	if countCode(result.Issues, entities.CodeBOMCycle) != 1 {
		t.Errorf("Expected one bom_cycle issue, got %v", result.Issues)
	}
}

func TestBOMValidator_DetectLongerCycle(t *testing.T) {
	a, b, c := entities.ProductRef("A"), entities.ProductRef("B"), entities.ProductRef("C")
	lines := []*entities.BOMLine{
		line("BOM-A", a, b, 1),
		line("BOM-B", b, c, 1),
		line("BOM-C", c, a, 1),
	}

	result := NewBOMValidator().ValidateBOM(lines, nil)

	if !result.HasCycles {
		t.Error("Expected cycle to be detected")
	}
	if len(result.CyclePaths[0]) != 4 {
		t.Errorf("Expected closed path of 4 nodes, got %v", result.CyclePaths[0])
	}
}

func TestBOMValidator_NoCycles(t *testing.T) {
	a, b := entities.ProductRef("A"), entities.ProductRef("B")
	lines := []*entities.BOMLine{
		line("BOM-A", a, b, 1),
		line("BOM-A", a, entities.MaterialRef("C"), 2),
		line("BOM-B", b, entities.MaterialRef("D"), 3),
	}

	result := NewBOMValidator().ValidateBOM(lines, nil)

	if result.HasCycles {
		t.Error("Expected no cycles to be detected")
	}
	if !result.Valid() {
		t.Errorf("Expected no validation issues, got %v", result.Issues)
	}
}

func TestBOMValidator_LineQuality(t *testing.T) {
	p := entities.ProductRef("P")
	scrapped := line("BOM-P", p, entities.MaterialRef("S"), 1)
	scrapped.ScrapPct = decimal.NewFromInt(-5)
	lines := []*entities.BOMLine{
		line("BOM-P", p, entities.MaterialRef("M"), 1),
		line("BOM-P", p, entities.MaterialRef("M"), 2),
		line("BOM-P", p, entities.MaterialRef("Z"), 0),
		scrapped,
	}

	result := NewBOMValidator().ValidateBOM(lines, nil)

	if len(result.DuplicateLines) != 1 {
		t.Errorf("Expected 1 duplicate line, got %d", len(result.DuplicateLines))
	}
	tests := []struct {
		code     string
		expected int
	}{
		{entities.CodeDuplicateBOMLine, 1},
		{entities.CodeNonPositiveQtyPer, 1},
		{entities.CodeNegativeScrap, 1},
	}
	for _, tt := range tests {
		if got := countCode(result.Issues, tt.code); got != tt.expected {
			t.Errorf("Expected %d %s issues, got %d", tt.expected, tt.code, got)
		}
	}
}

func TestBOMValidator_SameComponentInDifferentBillsIsNotDuplicate(t *testing.T) {
	p := entities.ProductRef("P")
	lines := []*entities.BOMLine{
		line("BOM-P-v1", p, entities.MaterialRef("M"), 1),
		line("BOM-P-v2", p, entities.MaterialRef("M"), 2),
	}

	result := NewBOMValidator().ValidateBOM(lines, nil)

	if len(result.DuplicateLines) > 0 {
		t.Error("Lines in different bill versions should not be flagged as duplicates")
	}
	if result.HasCycles {
		t.Error("Repeated parent-component edges should not create cycles")
	}
}

func TestBOMValidator_MissingItems(t *testing.T) {
	p := entities.ProductRef("P")
	lines := []*entities.BOMLine{
		line("BOM-P", p, entities.MaterialRef("M1"), 1),
		line("BOM-P", p, entities.MaterialRef("GHOST"), 1),
	}
	items := []entities.Item{
		&entities.Product{ID: "P"},
		&entities.Material{ID: "M1"},
	}

	result := NewBOMValidator().ValidateBOM(lines, items)

	if countCode(result.Issues, entities.CodeMissingItem) != 1 {
		t.Fatalf("Expected one missing_item issue, got %v", result.Issues)
	}
	if result.Issues[0].Item != entities.MaterialRef("GHOST") {
		t.Errorf("Expected GHOST to be reported, got %s", result.Issues[0].Item)
	}
}
