// Package bootstrap assembles the planning and production services from a
// CSV scenario and the configured persistence.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/vsinha/tpmrp/pkg/application/services/capacity"
	"github.com/vsinha/tpmrp/pkg/application/services/planning"
	"github.com/vsinha/tpmrp/pkg/application/services/production"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/domain/repositories"
	"github.com/vsinha/tpmrp/pkg/infrastructure/config"
	"github.com/vsinha/tpmrp/pkg/infrastructure/events"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"github.com/vsinha/tpmrp/pkg/infrastructure/metrics"
	"github.com/vsinha/tpmrp/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/tpmrp/pkg/infrastructure/repositories/gormstore"
	"github.com/vsinha/tpmrp/pkg/infrastructure/repositories/memory"
)

// Persistence selects where runs, production orders and inventory live
type Persistence string

const (
	InMemory Persistence = "memory"
	Database Persistence = "db"
)

// Options describe what to assemble
type Options struct {
	ScenarioDir string
	Persistence Persistence
}

// App is a fully wired set of services over one scenario
type App struct {
	Config     *config.Config
	Logger     *logger.Logger
	Metrics    *metrics.Recorder
	Events     *events.InMemoryEventStore
	Master     *memory.Stores
	Runs       repositories.RunRepository
	Production repositories.ProductionRepository
	Inventory  repositories.InventoryRepository

	Planning  *planning.Service
	Orders    *production.Service
	Scheduler *capacity.Scheduler

	closers []func() error
}

// New loads the scenario and wires every service. Master data always lives
// in memory; runs, production orders and inventory go to the database when
// Persistence is Database.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts Options) (*App, error) {
	log = logger.OrNop(log)

	scenario, err := csv.NewLoader().LoadScenario(opts.ScenarioDir)
	if err != nil {
		return nil, err
	}
	master := memory.NewStores(cfg.PeriodDays)
	if err := scenario.Populate(master); err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.NewRecorder(cfg.MetricsEnabled),
		Events:  events.NewInMemoryEventStore(log),
		Master:  master,
	}

	var (
		inventory interface {
			repositories.InventoryRepository
			csv.OnHandSetter
		}
		tx repositories.TxRunner
	)
	switch opts.Persistence {
	case Database:
		db, err := gormstore.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, sqlDB.Close)

		store := gormstore.NewStore(db, log)
		app.Runs = store.Runs
		app.Production = store.Production
		inventory = store.Inventory
		tx = store.Tx
	case InMemory, "":
		app.Runs = master.Runs
		app.Production = master.Production
		inventory = master.Inventory
		tx = master.Tx
	default:
		return nil, fmt.Errorf("unknown persistence %q", opts.Persistence)
	}
	app.Inventory = inventory

	if err := scenario.SeedInventory(ctx, inventory); err != nil {
		_ = app.Close()
		return nil, err
	}

	app.Scheduler = capacity.NewScheduler(
		app.Production, master.Routings, master.WorkCenters, tx,
		app.Events, app.Metrics, log, capacity.Config{MaxSearchDays: cfg.MaxSearchDays},
	)
	app.Planning = planning.NewService(planning.Deps{
		Items:     master.Items,
		BOMs:      master.BOMs,
		Demand:    master.Demand,
		Inventory: inventory,
		Calendar:  master.Calendar,
		Runs:      app.Runs,
		Tx:        tx,
		Publisher: app.Events,
		Metrics:   app.Metrics,
		Logger:    log,
	})
	app.Orders = production.NewService(production.Deps{
		Items:      master.Items,
		BOMs:       master.BOMs,
		Demand:     master.Demand,
		Inventory:  inventory,
		Production: app.Production,
		Tx:         tx,
		Scheduler:  app.Scheduler,
		Publisher:  app.Events,
		Metrics:    app.Metrics,
		Logger:     log,
	})

	log.Info("scenario loaded",
		"dir", opts.ScenarioDir,
		"persistence", string(opts.Persistence),
		"items", len(scenario.Items),
		"boms", len(scenario.BOMs),
		"order_lines", len(scenario.CustomerOrders),
		"work_centers", len(scenario.WorkCenters),
	)
	return app, nil
}

// DefaultRunOptions enables every demand source over the configured horizon
func (a *App) DefaultRunOptions() entities.RunOptions {
	opts := entities.DefaultRunOptions()
	opts.PlanningHorizon = a.Config.PlanningHorizonDays
	return opts
}

// Close releases the database connection, if any
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	a.Events.Wait()
	return first
}
