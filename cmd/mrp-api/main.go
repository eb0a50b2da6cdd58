package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/vsinha/tpmrp/pkg/infrastructure/config"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"github.com/vsinha/tpmrp/pkg/interfaces/bootstrap"
	api "github.com/vsinha/tpmrp/pkg/interfaces/http"
)

func main() {
	_ = godotenv.Load()

	scenario := flag.String("scenario", os.Getenv("MRP_SCENARIO_DIR"), "Path to scenario directory containing CSV files")
	persistence := flag.String("persistence", "db", "Where runs and orders are stored: memory or db")
	flag.Parse()

	if err := serve(*scenario, bootstrap.Persistence(*persistence)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve(scenario string, persistence bootstrap.Persistence) error {
	if scenario == "" {
		return errors.New("scenario directory is required (-scenario or MRP_SCENARIO_DIR)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log, bootstrap.Options{ScenarioDir: scenario, Persistence: persistence})
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(api.RouterConfig{
			Planner:     app.Planning,
			Orders:      app.Orders,
			Scheduler:   app.Scheduler,
			RunDefaults: app.DefaultRunOptions(),
			Logger:      log,
			Metrics:     cfg.MetricsEnabled,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr, "persistence", string(persistence))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
