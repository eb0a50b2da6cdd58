package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	"github.com/vsinha/tpmrp/pkg/infrastructure/dbctx"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository is a GORM-backed inventory ledger
type InventoryRepository struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func NewInventoryRepository(db *gorm.DB, baseLog *logger.Logger) *InventoryRepository {
	return &InventoryRepository{
		db:  db,
		log: logger.OrNop(baseLog).With("repo", "InventoryRepository"),
		now: time.Now,
	}
}

var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// SetOnHand upserts the balance of an item at a location
func (r *InventoryRepository) SetOnHand(ctx context.Context, item entities.ItemRef, location string, quantity decimal.Decimal) error {
	m := InventoryBalanceModel{ItemType: string(item.Type), ItemID: item.ID, Location: location, OnHand: quantity}
	return dbctx.DB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_type"}, {Name: "item_id"}, {Name: "location"}},
		DoUpdates: clause.AssignmentColumns([]string{"on_hand"}),
	}).Create(&m).Error
}

func (r *InventoryRepository) GetAvailableQuantity(ctx context.Context, item entities.ItemRef) (decimal.Decimal, error) {
	db := dbctx.DB(ctx, r.db)
	onHand, err := r.onHand(db, item)
	if err != nil {
		return decimal.Zero, err
	}
	reserved, err := r.reserved(db, item)
	if err != nil {
		return decimal.Zero, err
	}
	return onHand.Sub(reserved), nil
}

func (r *InventoryRepository) Reserve(ctx context.Context, item entities.ItemRef, quantity decimal.Decimal, reference string) error {
	movement, err := entities.NewInventoryMovement(item, entities.MovementReserve, quantity, reference, r.now())
	if err != nil {
		return err
	}
	return r.inTx(ctx, func(tx *gorm.DB) error {
		onHand, err := r.onHand(tx, item)
		if err != nil {
			return err
		}
		reserved, err := r.reserved(tx, item)
		if err != nil {
			return err
		}
		if avail := onHand.Sub(reserved); avail.LessThan(quantity) {
			return fmt.Errorf("%w: %s needs %s, %s available", entities.ErrInsufficientInventory, item, quantity, avail)
		}
		if err := r.setReserved(tx, item, reserved.Add(quantity)); err != nil {
			return err
		}
		return r.record(tx, movement)
	})
}

func (r *InventoryRepository) Issue(ctx context.Context, item entities.ItemRef, quantity decimal.Decimal, reference string) error {
	movement, err := entities.NewInventoryMovement(item, entities.MovementIssue, quantity, reference, r.now())
	if err != nil {
		return err
	}
	return r.inTx(ctx, func(tx *gorm.DB) error {
		var balances []InventoryBalanceModel
		if err := tx.Where("item_type = ? AND item_id = ?", string(item.Type), item.ID).
			Order("location ASC").Find(&balances).Error; err != nil {
			return err
		}
		total := decimal.Zero
		for _, b := range balances {
			total = total.Add(b.OnHand)
		}
		if total.LessThan(quantity) {
			return fmt.Errorf("%w: cannot issue %s of %s, %s on hand", entities.ErrInsufficientInventory, quantity, item, total)
		}

		reserved, err := r.reserved(tx, item)
		if err != nil {
			return err
		}
		if err := r.setReserved(tx, item, reserved.Sub(decimal.Min(reserved, quantity))); err != nil {
			return err
		}

		remaining := quantity
		for _, b := range balances {
			if !remaining.IsPositive() {
				break
			}
			take := decimal.Min(b.OnHand, remaining)
			if err := tx.Model(&InventoryBalanceModel{}).
				Where("item_type = ? AND item_id = ? AND location = ?", b.ItemType, b.ItemID, b.Location).
				Update("on_hand", b.OnHand.Sub(take)).Error; err != nil {
				return err
			}
			remaining = remaining.Sub(take)
		}
		return r.record(tx, movement)
	})
}

func (r *InventoryRepository) Transfer(ctx context.Context, item entities.ItemRef, quantity decimal.Decimal, fromLocation, toLocation string) error {
	movement, err := entities.NewInventoryMovement(item, entities.MovementTransfer, quantity, "", r.now())
	if err != nil {
		return err
	}
	if fromLocation == toLocation {
		return fmt.Errorf("transfer source and destination are both %s", fromLocation)
	}
	movement.FromLocation = fromLocation
	movement.ToLocation = toLocation

	return r.inTx(ctx, func(tx *gorm.DB) error {
		from, err := r.balance(tx, item, fromLocation)
		if err != nil {
			return err
		}
		if from.LessThan(quantity) {
			return fmt.Errorf("%w: %s at %s has %s, transfer needs %s",
				entities.ErrInsufficientInventory, item, fromLocation, from, quantity)
		}
		to, err := r.balance(tx, item, toLocation)
		if err != nil {
			return err
		}
		txCtx := dbctx.WithTx(ctx, tx)
		if err := r.SetOnHand(txCtx, item, fromLocation, from.Sub(quantity)); err != nil {
			return err
		}
		if err := r.SetOnHand(txCtx, item, toLocation, to.Add(quantity)); err != nil {
			return err
		}
		return r.record(tx, movement)
	})
}

// inTx joins the caller's transaction or opens one for a single ledger mutation
func (r *InventoryRepository) inTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if tx := dbctx.Tx(ctx); tx != nil {
		return fn(tx)
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *InventoryRepository) onHand(db *gorm.DB, item entities.ItemRef) (decimal.Decimal, error) {
	var balances []InventoryBalanceModel
	if err := db.Where("item_type = ? AND item_id = ?", string(item.Type), item.ID).Find(&balances).Error; err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.OnHand)
	}
	return total, nil
}

func (r *InventoryRepository) balance(db *gorm.DB, item entities.ItemRef, location string) (decimal.Decimal, error) {
	var b InventoryBalanceModel
	err := db.Where("item_type = ? AND item_id = ? AND location = ?", string(item.Type), item.ID, location).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	return b.OnHand, err
}

func (r *InventoryRepository) reserved(db *gorm.DB, item entities.ItemRef) (decimal.Decimal, error) {
	var m InventoryReservationModel
	err := db.Where("item_type = ? AND item_id = ?", string(item.Type), item.ID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	return m.Reserved, err
}

func (r *InventoryRepository) setReserved(db *gorm.DB, item entities.ItemRef, qty decimal.Decimal) error {
	m := InventoryReservationModel{ItemType: string(item.Type), ItemID: item.ID, Reserved: qty}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_type"}, {Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reserved"}),
	}).Create(&m).Error
}

func (r *InventoryRepository) record(db *gorm.DB, mv *entities.InventoryMovement) error {
	return db.Create(&InventoryMovementModel{
		ID:           uuid.New(),
		ItemType:     string(mv.Item.Type),
		ItemID:       mv.Item.ID,
		Type:         mv.Type.String(),
		Quantity:     mv.Quantity,
		Reference:    mv.Reference,
		FromLocation: mv.FromLocation,
		ToLocation:   mv.ToLocation,
		At:           mv.At,
	}).Error
}
