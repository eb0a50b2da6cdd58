package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
)

// DemandRepository provides in-memory customer orders and MPS lines
type DemandRepository struct {
	orderLines []*entities.CustomerOrderLine
	mpsLines   []*entities.MPSLine
}

// NewDemandRepository creates a new in-memory demand repository
func NewDemandRepository() *DemandRepository {
	return &DemandRepository{}
}

// Verify interface compliance
var _ repositories.DemandRepository = (*DemandRepository)(nil)

// LoadOrderLines adds customer-order lines
func (r *DemandRepository) LoadOrderLines(lines []*entities.CustomerOrderLine) error {
	r.orderLines = append(r.orderLines, lines...)
	return nil
}

// LoadMPSLines adds master schedule lines
func (r *DemandRepository) LoadMPSLines(lines []*entities.MPSLine) error {
	r.mpsLines = append(r.mpsLines, lines...)
	return nil
}

// OpenOrderLines returns lines with an open status due within [from, to]
func (r *DemandRepository) OpenOrderLines(ctx context.Context, from, to time.Time) ([]*entities.CustomerOrderLine, error) {
	var out []*entities.CustomerOrderLine
	for _, line := range r.orderLines {
		if !isOpen(line.Status) || !within(line.DueDate, from, to) {
			continue
		}
		out = append(out, line)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

// MPSLines returns schedule lines dated within [from, to]
func (r *DemandRepository) MPSLines(ctx context.Context, from, to time.Time) ([]*entities.MPSLine, error) {
	var out []*entities.MPSLine
	for _, line := range r.mpsLines {
		if within(line.Date, from, to) {
			out = append(out, line)
		}
	}
	return out, nil
}

// CustomerOrderLines returns every line of one customer order
func (r *DemandRepository) CustomerOrderLines(ctx context.Context, orderID string) ([]*entities.CustomerOrderLine, error) {
	var out []*entities.CustomerOrderLine
	for _, line := range r.orderLines {
		if line.OrderID == orderID {
			out = append(out, line)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("customer order %s: %w", orderID, entities.ErrNotFound)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LineNo < out[j].LineNo })
	return out, nil
}

func isOpen(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", "open", "confirmed", "in_progress":
		return true
	default:
		return false
	}
}

func within(date, from, to time.Time) bool {
	d := entities.DateOf(date)
	return !d.Before(entities.DateOf(from)) && !d.After(entities.DateOf(to))
}
