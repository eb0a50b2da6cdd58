// Package http exposes planning and production over a gin REST API.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
)

type RouterConfig struct {
	Planner     Planner
	Orders      OrderService
	Scheduler   BatchScheduler
	RunDefaults entities.RunOptions
	Logger      *logger.Logger
	// Metrics mounts the Prometheus handler on /metrics
	Metrics bool
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := logger.OrNop(cfg.Logger).With("component", "http")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	router.GET("/healthcheck", HealthCheck)
	if cfg.Metrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	planning := NewPlanningHandler(cfg.Planner, cfg.RunDefaults)
	production := NewProductionHandler(cfg.Orders, cfg.Scheduler)

	v1 := router.Group("/v1")
	mrp := v1.Group("/mrp")
	{
		mrp.POST("/runs", planning.CreateRun)
		mrp.GET("/reports/:type/:id", planning.GetReport)
	}
	prod := v1.Group("/production")
	{
		prod.POST("/orders", production.CreateOrders)
		prod.PATCH("/orders/:id/status", production.UpdateStatus)
		prod.POST("/schedule", production.Schedule)
	}
	return router
}
