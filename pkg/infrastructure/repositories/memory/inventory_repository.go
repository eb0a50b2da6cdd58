package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
)

// DefaultLocation receives stock loaded without a location
const DefaultLocation = "MAIN"

// InventoryRepository provides an in-memory inventory ledger
type InventoryRepository struct {
	mu        sync.RWMutex
	onHand    map[entities.ItemRef]map[string]decimal.Decimal
	reserved  map[entities.ItemRef]decimal.Decimal
	movements []entities.InventoryMovement
	now       func() time.Time
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		onHand:   make(map[entities.ItemRef]map[string]decimal.Decimal),
		reserved: make(map[entities.ItemRef]decimal.Decimal),
		now:      time.Now,
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// AddOnHand receives stock at a location
func (r *InventoryRepository) AddOnHand(item entities.ItemRef, location string, quantity decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if location == "" {
		location = DefaultLocation
	}
	if r.onHand[item] == nil {
		r.onHand[item] = make(map[string]decimal.Decimal)
	}
	r.onHand[item][location] = r.onHand[item][location].Add(quantity)
}

// SetOnHand overwrites the balance at a location
func (r *InventoryRepository) SetOnHand(ctx context.Context, item entities.ItemRef, location string, quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return fmt.Errorf("on hand cannot be negative, got %s", quantity)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if location == "" {
		location = DefaultLocation
	}
	if r.onHand[item] == nil {
		r.onHand[item] = make(map[string]decimal.Decimal)
	}
	r.onHand[item][location] = quantity
	return nil
}

// GetAvailableQuantity returns on hand across locations minus reserved
func (r *InventoryRepository) GetAvailableQuantity(ctx context.Context, item entities.ItemRef) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.available(item), nil
}

func (r *InventoryRepository) available(item entities.ItemRef) decimal.Decimal {
	total := decimal.Zero
	for _, qty := range r.onHand[item] {
		total = total.Add(qty)
	}
	return total.Sub(r.reserved[item])
}

// Reserve earmarks available stock for a reference
func (r *InventoryRepository) Reserve(ctx context.Context, item entities.ItemRef, quantity decimal.Decimal, reference string) error {
	movement, err := entities.NewInventoryMovement(item, entities.MovementReserve, quantity, reference, r.now())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if avail := r.available(item); avail.LessThan(quantity) {
		return fmt.Errorf("%w: %s needs %s, %s available", entities.ErrInsufficientInventory, item, quantity, avail)
	}
	r.reserved[item] = r.reserved[item].Add(quantity)
	r.movements = append(r.movements, *movement)
	return nil
}

// Issue consumes stock, releasing reservations first
func (r *InventoryRepository) Issue(ctx context.Context, item entities.ItemRef, quantity decimal.Decimal, reference string) error {
	movement, err := entities.NewInventoryMovement(item, entities.MovementIssue, quantity, reference, r.now())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	total := decimal.Zero
	for _, qty := range r.onHand[item] {
		total = total.Add(qty)
	}
	if total.LessThan(quantity) {
		return fmt.Errorf("%w: cannot issue %s of %s, %s on hand", entities.ErrInsufficientInventory, quantity, item, total)
	}

	release := decimal.Min(r.reserved[item], quantity)
	r.reserved[item] = r.reserved[item].Sub(release)

	remaining := quantity
	for _, loc := range sortedLocations(r.onHand[item]) {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(r.onHand[item][loc], remaining)
		r.onHand[item][loc] = r.onHand[item][loc].Sub(take)
		remaining = remaining.Sub(take)
	}
	r.movements = append(r.movements, *movement)
	return nil
}

// Transfer moves stock between locations without changing availability
func (r *InventoryRepository) Transfer(ctx context.Context, item entities.ItemRef, quantity decimal.Decimal, fromLocation, toLocation string) error {
	movement, err := entities.NewInventoryMovement(item, entities.MovementTransfer, quantity, "", r.now())
	if err != nil {
		return err
	}
	movement.FromLocation = fromLocation
	movement.ToLocation = toLocation

	r.mu.Lock()
	defer r.mu.Unlock()
	if fromLocation == toLocation {
		return fmt.Errorf("transfer source and destination are both %s", fromLocation)
	}
	if r.onHand[item][fromLocation].LessThan(quantity) {
		return fmt.Errorf("%w: %s at %s has %s, transfer needs %s",
			entities.ErrInsufficientInventory, item, fromLocation, r.onHand[item][fromLocation], quantity)
	}
	r.onHand[item][fromLocation] = r.onHand[item][fromLocation].Sub(quantity)
	r.onHand[item][toLocation] = r.onHand[item][toLocation].Add(quantity)
	r.movements = append(r.movements, *movement)
	return nil
}

// Movements returns the ledger history
func (r *InventoryRepository) Movements() []entities.InventoryMovement {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entities.InventoryMovement(nil), r.movements...)
}

// Snapshot implements Snapshotter
func (r *InventoryRepository) Snapshot() func() {
	r.mu.RLock()
	onHand := make(map[entities.ItemRef]map[string]decimal.Decimal, len(r.onHand))
	for item, locs := range r.onHand {
		copied := make(map[string]decimal.Decimal, len(locs))
		for loc, qty := range locs {
			copied[loc] = qty
		}
		onHand[item] = copied
	}
	reserved := make(map[entities.ItemRef]decimal.Decimal, len(r.reserved))
	for item, qty := range r.reserved {
		reserved[item] = qty
	}
	movements := len(r.movements)
	r.mu.RUnlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.onHand = onHand
		r.reserved = reserved
		r.movements = r.movements[:movements]
	}
}

func sortedLocations(locs map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(locs))
	for k := range locs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
