package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/application/dto"
	"github.com/vsinha/tpmrp/pkg/application/services/capacity"
	"github.com/vsinha/tpmrp/pkg/application/services/production"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
)

// Planner runs MRP and answers time-phased queries
type Planner interface {
	RunTimePhasedMRP(ctx context.Context, opts entities.RunOptions) (*dto.RunResult, error)
	GetTimePhasedReport(ctx context.Context, ref entities.ItemRef) (*dto.TimePhasedReport, error)
}

// OrderService creates production orders and moves them through their lifecycle
type OrderService interface {
	CreateProductionOrders(ctx context.Context, customerOrderID string, opts production.CreateOptions) (*dto.CreateOrdersResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status entities.ProductionStatus) (*entities.ProductionOrder, error)
}

// BatchScheduler places existing production orders on work-center calendars
type BatchScheduler interface {
	ForwardSchedule(ctx context.Context, orderIDs []uuid.UUID, start time.Time) (*dto.ScheduleResult, error)
	BackwardSchedule(ctx context.Context, orderIDs []uuid.UUID, end time.Time) (*dto.ScheduleResult, error)
}

type RunRequest struct {
	AsOf               string `json:"as_of"`
	PlanningHorizon    int    `json:"planning_horizon"`
	IncludeSafetyStock *bool  `json:"include_safety_stock"`
	IncludeOrders      *bool  `json:"include_orders"`
	IncludeMPS         *bool  `json:"include_mps"`
	User               string `json:"user"`
}

type CreateOrdersRequest struct {
	CustomerOrderID string `json:"customer_order_id" binding:"required"`
	Reserve         bool   `json:"reserve"`
	Schedule        bool   `json:"schedule"`
	Direction       string `json:"direction"`
	ReferenceDate   string `json:"reference_date"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ScheduleRequest struct {
	OrderIDs  []string `json:"order_ids"`
	Direction string   `json:"direction"`
	Date      string   `json:"date"`
}

// PlanningHandler serves MRP runs and reports
type PlanningHandler struct {
	planner  Planner
	defaults entities.RunOptions
}

func NewPlanningHandler(planner Planner, defaults entities.RunOptions) *PlanningHandler {
	return &PlanningHandler{planner: planner, defaults: defaults}
}

// CreateRun runs MRP synchronously. A failed run answers 500 with its summary.
func (h *PlanningHandler) CreateRun(c *gin.Context) {
	var req RunRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_payload", err)
			return
		}
	}

	opts := h.defaults
	asOf, err := parseDate(req.AsOf)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_date", err)
		return
	}
	opts.AsOf = asOf
	if req.PlanningHorizon < 0 {
		RespondError(c, http.StatusBadRequest, "invalid_horizon", fmt.Errorf("planning horizon must be positive, got %d", req.PlanningHorizon))
		return
	}
	if req.PlanningHorizon > 0 {
		opts.PlanningHorizon = req.PlanningHorizon
	}
	if req.IncludeSafetyStock != nil {
		opts.IncludeSafetyStock = *req.IncludeSafetyStock
	}
	if req.IncludeOrders != nil {
		opts.IncludeOrders = *req.IncludeOrders
	}
	if req.IncludeMPS != nil {
		opts.IncludeMPS = *req.IncludeMPS
	}
	opts.User = req.User

	result, err := h.planner.RunTimePhasedMRP(c.Request.Context(), opts)
	if err != nil {
		_ = c.Error(err)
		if result != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   APIError{Message: err.Error(), Code: "run_failed"},
				"summary": result.Summary,
			})
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetReport recomputes one item against the latest completed run
func (h *PlanningHandler) GetReport(c *gin.Context) {
	itemType, err := entities.ParseItemType(c.Param("type"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_item", err)
		return
	}
	ref := entities.ItemRef{Type: itemType, ID: c.Param("id")}

	report, err := h.planner.GetTimePhasedReport(c.Request.Context(), ref)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ProductionHandler serves production orders and scheduling
type ProductionHandler struct {
	orders    OrderService
	scheduler BatchScheduler
}

func NewProductionHandler(orders OrderService, scheduler BatchScheduler) *ProductionHandler {
	return &ProductionHandler{orders: orders, scheduler: scheduler}
}

func (h *ProductionHandler) CreateOrders(c *gin.Context) {
	var req CreateOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	direction, err := parseDirection(req.Direction)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_direction", err)
		return
	}
	ref, err := parseDate(req.ReferenceDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_date", err)
		return
	}

	result, err := h.orders.CreateProductionOrders(c.Request.Context(), req.CustomerOrderID, production.CreateOptions{
		Reserve:       req.Reserve,
		Schedule:      req.Schedule,
		Direction:     direction,
		ReferenceDate: ref,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *ProductionHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	status, err := entities.ParseProductionStatus(req.Status)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_status", err)
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *ProductionHandler) Schedule(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	ids := make([]uuid.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("invalid order id %q: %w", raw, err))
			return
		}
		ids = append(ids, id)
	}
	direction, err := parseDirection(req.Direction)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_direction", err)
		return
	}
	ref, err := parseDate(req.Date)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_date", err)
		return
	}
	if ref.IsZero() {
		ref = time.Now()
	}

	var result *dto.ScheduleResult
	if direction == capacity.Backward {
		result, err = h.scheduler.BackwardSchedule(c.Request.Context(), ids, ref)
	} else {
		result, err = h.scheduler.ForwardSchedule(c.Request.Context(), ids, ref)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseDirection(s string) (capacity.Direction, error) {
	if s == "" {
		return capacity.Forward, nil
	}
	return capacity.ParseDirection(strings.ToLower(s))
}

// parseDate accepts a calendar date or an RFC 3339 timestamp; empty is zero
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or RFC 3339)", s)
	}
	return t, nil
}
