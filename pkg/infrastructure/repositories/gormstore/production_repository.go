package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	"github.com/vsinha/tpmrp/pkg/infrastructure/dbctx"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"gorm.io/gorm"
)

// ProductionRepository persists production orders and operations through GORM
type ProductionRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductionRepository(db *gorm.DB, baseLog *logger.Logger) *ProductionRepository {
	return &ProductionRepository{
		db:  db,
		log: logger.OrNop(baseLog).With("repo", "ProductionRepository"),
	}
}

var _ repositories.ProductionRepository = (*ProductionRepository)(nil)

func (r *ProductionRepository) CreateOrder(ctx context.Context, order *entities.ProductionOrder) error {
	return dbctx.DB(ctx, r.db).Create(toProductionOrderModel(order)).Error
}

func (r *ProductionRepository) GetOrder(ctx context.Context, id uuid.UUID) (*entities.ProductionOrder, error) {
	var m ProductionOrderModel
	err := dbctx.DB(ctx, r.db).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("production order %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return m.toEntity(), nil
}

func (r *ProductionRepository) UpdateOrder(ctx context.Context, order *entities.ProductionOrder) error {
	m := toProductionOrderModel(order)
	res := dbctx.DB(ctx, r.db).Model(m).Select("*").Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("production order %s: %w", order.ID, entities.ErrNotFound)
	}
	return nil
}

func (r *ProductionRepository) SaveOperations(ctx context.Context, ops []*entities.ProductionOperation) error {
	if len(ops) == 0 {
		return nil
	}
	models := make([]ProductionOperationModel, len(ops))
	for i, op := range ops {
		models[i] = toOperationModel(op)
	}
	return dbctx.DB(ctx, r.db).Create(&models).Error
}

func (r *ProductionRepository) OperationsForOrder(ctx context.Context, orderID uuid.UUID) ([]*entities.ProductionOperation, error) {
	var models []ProductionOperationModel
	if err := dbctx.DB(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("sequence ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.ProductionOperation, len(models))
	for i := range models {
		out[i] = models[i].toEntity()
	}
	return out, nil
}

func (r *ProductionRepository) DeleteOperations(ctx context.Context, orderID uuid.UUID) error {
	return dbctx.DB(ctx, r.db).Where("order_id = ?", orderID).Delete(&ProductionOperationModel{}).Error
}

func (r *ProductionRepository) CountOperationsOn(ctx context.Context, workCenterID string, day time.Time) (int, error) {
	var count int64
	err := dbctx.DB(ctx, r.db).
		Model(&ProductionOperationModel{}).
		Where("work_center_id = ? AND scheduled_day = ?", workCenterID, dayString(day)).
		Count(&count).Error
	return int(count), err
}
