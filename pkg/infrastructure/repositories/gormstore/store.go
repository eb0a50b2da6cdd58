package gormstore

import (
	"context"
	"fmt"

	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	"github.com/vsinha/tpmrp/pkg/infrastructure/dbctx"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Open connects to sqlite or postgres and migrates every table
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "sqlite" {
		// in-memory sqlite is per connection, and sqlite allows one writer anyway
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate %s database: %w", driver, err)
	}
	return db, nil
}

// Store bundles the GORM-backed repositories sharing one database handle
type Store struct {
	DB         *gorm.DB
	Runs       *RunRepository
	Production *ProductionRepository
	Inventory  *InventoryRepository
	Tx         *TxRunner
}

func NewStore(db *gorm.DB, log *logger.Logger) *Store {
	return &Store{
		DB:         db,
		Runs:       NewRunRepository(db, log),
		Production: NewProductionRepository(db, log),
		Inventory:  NewInventoryRepository(db, log),
		Tx:         NewTxRunner(db),
	}
}

// TxRunner runs units of work inside a GORM transaction bound to the context
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

var _ repositories.TxRunner = (*TxRunner)(nil)

func (r *TxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if dbctx.Tx(ctx) != nil {
		return fn(ctx)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.WithTx(ctx, tx))
	})
}
