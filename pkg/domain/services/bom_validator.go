package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// BOMValidator checks bill of materials data quality before planning
type BOMValidator struct{}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{}
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	HasCycles      bool
	CyclePaths     [][]entities.ItemRef
	DuplicateLines []*entities.BOMLine
	Issues         []entities.PlanningIssue
}

// Valid reports whether no issue was found
func (r *ValidationResult) Valid() bool {
	return len(r.Issues) == 0
}

// ValidateBOM reports cycles, duplicate lines, non-positive quantities,
// negative scrap and components missing from the item master. items may be
// nil to skip the master-data check.
func (v *BOMValidator) ValidateBOM(lines []*entities.BOMLine, items []entities.Item) *ValidationResult {
	result := &ValidationResult{}

	for _, line := range lines {
		if !line.QtyPer.IsPositive() {
			result.Issues = append(result.Issues, entities.PlanningIssue{
				Kind:      entities.IssueValidation,
				Code:      entities.CodeNonPositiveQtyPer,
				Item:      line.Component,
				Reference: line.BOMID,
				Message:   fmt.Sprintf("BOM %s line %s has qty per %s", line.BOMID, line.Component, line.QtyPer),
			})
		}
		if line.ScrapPct.IsNegative() {
			result.Issues = append(result.Issues, entities.PlanningIssue{
				Kind:      entities.IssueValidation,
				Code:      entities.CodeNegativeScrap,
				Item:      line.Component,
				Reference: line.BOMID,
				Message:   fmt.Sprintf("BOM %s line %s has negative scrap %s%%", line.BOMID, line.Component, line.ScrapPct),
			})
		}
	}

	result.DuplicateLines = v.detectDuplicateLines(lines)
	for _, dup := range result.DuplicateLines {
		result.Issues = append(result.Issues, entities.PlanningIssue{
			Kind:      entities.IssueValidation,
			Code:      entities.CodeDuplicateBOMLine,
			Item:      dup.Component,
			Reference: dup.BOMID,
			Message:   fmt.Sprintf("BOM %s lists %s more than once", dup.BOMID, dup.Component),
		})
	}

	result.CyclePaths = v.detectCycles(v.buildAdjacencyMap(lines))
	result.HasCycles = len(result.CyclePaths) > 0
	for _, cycle := range result.CyclePaths {
		result.Issues = append(result.Issues, entities.PlanningIssue{
			Kind:    entities.IssueValidation,
			Code:    entities.CodeBOMCycle,
			Item:    cycle[0],
			Message: "BOM cycle detected: " + formatPath(cycle),
		})
	}

	if items != nil {
		result.Issues = append(result.Issues, v.missingItems(lines, items)...)
	}

	return result
}

// buildAdjacencyMap creates a map of parent -> components
func (v *BOMValidator) buildAdjacencyMap(lines []*entities.BOMLine) map[entities.ItemRef][]entities.ItemRef {
	adjacency := make(map[entities.ItemRef][]entities.ItemRef)
	seen := make(map[[2]entities.ItemRef]bool)
	for _, line := range lines {
		edge := [2]entities.ItemRef{line.Parent, line.Component}
		if seen[edge] {
			continue
		}
		seen[edge] = true
		adjacency[line.Parent] = append(adjacency[line.Parent], line.Component)
	}
	return adjacency
}

// detectCycles runs a DFS from every parent in sorted order
func (v *BOMValidator) detectCycles(adjacency map[entities.ItemRef][]entities.ItemRef) [][]entities.ItemRef {
	parents := make([]entities.ItemRef, 0, len(adjacency))
	for p := range adjacency {
		parents = append(parents, p)
	}
	sort.Slice(parents, func(i, j int) bool { return parents[i].String() < parents[j].String() })

	visited := make(map[entities.ItemRef]bool)
	onStack := make(map[entities.ItemRef]bool)
	var cycles [][]entities.ItemRef

	var visit func(current entities.ItemRef, path []entities.ItemRef)
	visit = func(current entities.ItemRef, path []entities.ItemRef) {
		visited[current] = true
		onStack[current] = true
		path = append(path, current)

		for _, child := range adjacency[current] {
			if !visited[child] {
				visit(child, path)
				continue
			}
			if !onStack[child] {
				continue
			}
			for i, part := range path {
				if part == child {
					cycle := append(append([]entities.ItemRef(nil), path[i:]...), child)
					cycles = append(cycles, cycle)
					break
				}
			}
		}

		onStack[current] = false
	}

	for _, parent := range parents {
		if !visited[parent] {
			visit(parent, nil)
		}
	}
	return cycles
}

// detectDuplicateLines finds lines repeating a component within one bill
func (v *BOMValidator) detectDuplicateLines(lines []*entities.BOMLine) []*entities.BOMLine {
	seen := make(map[string]bool)
	var duplicates []*entities.BOMLine
	for _, line := range lines {
		key := line.BOMID + "|" + line.Component.String()
		if seen[key] {
			duplicates = append(duplicates, line)
			continue
		}
		seen[key] = true
	}
	return duplicates
}

func (v *BOMValidator) missingItems(lines []*entities.BOMLine, items []entities.Item) []entities.PlanningIssue {
	known := make(map[entities.ItemRef]bool, len(items))
	for _, it := range items {
		known[it.Ref()] = true
	}

	reported := make(map[entities.ItemRef]bool)
	var issues []entities.PlanningIssue
	for _, line := range lines {
		for _, ref := range []entities.ItemRef{line.Parent, line.Component} {
			if known[ref] || reported[ref] {
				continue
			}
			reported[ref] = true
			issues = append(issues, entities.PlanningIssue{
				Kind:      entities.IssueDataGap,
				Code:      entities.CodeMissingItem,
				Item:      ref,
				Reference: line.BOMID,
				Message:   fmt.Sprintf("BOM %s references %s which is not in the item master", line.BOMID, ref),
			})
		}
	}
	return issues
}

func formatPath(path []entities.ItemRef) string {
	parts := make([]string, len(path))
	for i, ref := range path {
		parts[i] = ref.String()
	}
	return strings.Join(parts, " -> ")
}
