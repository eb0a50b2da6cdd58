package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	"github.com/vsinha/tpmrp/pkg/infrastructure/dbctx"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"gorm.io/gorm"
)

// RunRepository persists runs and planned orders through GORM
type RunRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRunRepository(db *gorm.DB, baseLog *logger.Logger) *RunRepository {
	return &RunRepository{
		db:  db,
		log: logger.OrNop(baseLog).With("repo", "RunRepository"),
	}
}

var _ repositories.RunRepository = (*RunRepository)(nil)

func (r *RunRepository) CreateRun(ctx context.Context, run *entities.MRPRun) error {
	m, err := toRunModel(run)
	if err != nil {
		return err
	}
	return dbctx.DB(ctx, r.db).Create(m).Error
}

func (r *RunRepository) UpdateRun(ctx context.Context, run *entities.MRPRun) error {
	m, err := toRunModel(run)
	if err != nil {
		return err
	}
	res := dbctx.DB(ctx, r.db).Model(m).Select("*").Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("run %s: %w", run.ID, entities.ErrNotFound)
	}
	return nil
}

func (r *RunRepository) GetRun(ctx context.Context, id uuid.UUID) (*entities.MRPRun, error) {
	var m RunModel
	err := dbctx.DB(ctx, r.db).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("run %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return m.toEntity()
}

func (r *RunRepository) LatestCompletedRun(ctx context.Context) (*entities.MRPRun, error) {
	var m RunModel
	err := dbctx.DB(ctx, r.db).
		Where("status = ?", string(entities.RunCompleted)).
		Order("started_at DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrNoCompletedRun
	}
	if err != nil {
		return nil, err
	}
	return m.toEntity()
}

func (r *RunRepository) SavePlannedOrders(ctx context.Context, orders []*entities.PlannedOrder) error {
	if len(orders) == 0 {
		return nil
	}
	models := make([]PlannedOrderModel, len(orders))
	for i, o := range orders {
		models[i] = toPlannedOrderModel(o)
	}
	if err := dbctx.DB(ctx, r.db).CreateInBatches(models, 200).Error; err != nil {
		return fmt.Errorf("failed to save %d planned orders: %w", len(models), err)
	}
	r.log.Debug("planned orders saved", "count", len(models), "run_id", orders[0].RunID)
	return nil
}

func (r *RunRepository) PlannedOrders(ctx context.Context, runID uuid.UUID) ([]*entities.PlannedOrder, error) {
	var models []PlannedOrderModel
	if err := dbctx.DB(ctx, r.db).
		Where("run_id = ?", runID).
		Order("need_date ASC, item_type ASC, item_id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.PlannedOrder, 0, len(models))
	for i := range models {
		o, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
