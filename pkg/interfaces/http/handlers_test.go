package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vsinha/tpmrp/pkg/application/dto"
	"github.com/vsinha/tpmrp/pkg/domain/entities"
	"github.com/vsinha/tpmrp/pkg/infrastructure/config"
	"github.com/vsinha/tpmrp/pkg/infrastructure/logger"
	"github.com/vsinha/tpmrp/pkg/interfaces/bootstrap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Env:                 "test",
		DBDriver:            "sqlite",
		DBDSN:               ":memory:",
		PlanningHorizonDays: 90,
		PeriodDays:          7,
		MaxSearchDays:       365,
	}
	app, err := bootstrap.New(context.Background(), cfg, logger.NewNop(), bootstrap.Options{
		ScenarioDir: "../../../example/bracket",
		Persistence: bootstrap.InMemory,
	})
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	return NewRouter(RouterConfig{
		Planner:     app.Planning,
		Orders:      app.Orders,
		Scheduler:   app.Scheduler,
		RunDefaults: app.DefaultRunOptions(),
		Logger:      app.Logger,
		Metrics:     true,
	})
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Expected error envelope, got %q", rec.Body.String())
	}
	return env.Error.Code
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodGet, "/healthcheck", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("Expected 200 ok, got %d %q", rec.Code, rec.Body.String())
	}

	rec = do(router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("Expected Prometheus exposition, got %d", rec.Code)
	}
}

func TestPlanningRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodGet, "/v1/mrp/reports/material/M1", "")
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "no_completed_run" {
		t.Fatalf("Expected 404 no_completed_run before any run, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(router, http.MethodPost, "/v1/mrp/runs", `{"as_of":"2025-01-06","user":"api"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	var result dto.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Expected run result: %v", err)
	}
	if result.Summary.Status != entities.RunCompleted {
		t.Errorf("Expected completed run, got %s", result.Summary.Status)
	}
	if result.Run.Parameters.PlanningHorizon != 90 || result.Run.Parameters.User != "api" {
		t.Errorf("Expected defaults with user api, got %+v", result.Run.Parameters)
	}

	rec = do(router, http.MethodGet, "/v1/mrp/reports/material/M1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	var report dto.TimePhasedReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Expected report: %v", err)
	}
	if report.Item != entities.MaterialRef("M1") || len(report.Rows) == 0 {
		t.Errorf("Expected rows for material:M1, got %s with %d rows", report.Item, len(report.Rows))
	}
}

func TestPlanningRoutes_BadInput(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   string
	}{
		{"unknown item type", http.MethodGet, "/v1/mrp/reports/widget/M1", "", "invalid_item"},
		{"bad as-of", http.MethodPost, "/v1/mrp/runs", `{"as_of":"06/01/2025"}`, "invalid_date"},
		{"negative horizon", http.MethodPost, "/v1/mrp/runs", `{"planning_horizon":-1}`, "invalid_horizon"},
		{"malformed body", http.MethodPost, "/v1/mrp/runs", `{`, "invalid_payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, tt.method, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d %s", rec.Code, rec.Body.String())
			}
			if got := errorCode(t, rec); got != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, got)
			}
		})
	}
}

func TestProductionRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := do(router, http.MethodPost, "/v1/production/orders",
		`{"customer_order_id":"CO-1","reserve":true,"schedule":true,"reference_date":"2025-01-06"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	var created dto.CreateOrdersResult
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("Expected create result: %v", err)
	}
	if len(created.Orders) != 1 {
		t.Fatalf("Expected 1 production order, got %d", len(created.Orders))
	}
	id := created.Orders[0].ID.String()

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
	}{
		{"release", "/v1/production/orders/" + id + "/status", `{"status":"released"}`, http.StatusOK, ""},
		{"back to planned", "/v1/production/orders/" + id + "/status", `{"status":"planned"}`, http.StatusConflict, "invalid_transition"},
		{"unknown order", "/v1/production/orders/" + uuid.NewString() + "/status", `{"status":"released"}`, http.StatusNotFound, "not_found"},
		{"bad uuid", "/v1/production/orders/abc/status", `{"status":"released"}`, http.StatusBadRequest, "invalid_id"},
		{"unknown status", "/v1/production/orders/" + id + "/status", `{"status":"done"}`, http.StatusBadRequest, "invalid_status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, http.MethodPatch, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("Expected %d, got %d %s", tt.status, rec.Code, rec.Body.String())
			}
			if tt.code != "" {
				if got := errorCode(t, rec); got != tt.code {
					t.Errorf("Expected code %s, got %s", tt.code, got)
				}
			}
		})
	}
}

func TestProductionRoutes_BadInput(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		path string
		body string
		code string
	}{
		{"missing customer order", "/v1/production/orders", `{"reserve":true}`, "invalid_payload"},
		{"bad direction", "/v1/production/orders", `{"customer_order_id":"CO-1","direction":"sideways"}`, "invalid_direction"},
		{"bad schedule id", "/v1/production/schedule", `{"order_ids":["abc"]}`, "invalid_id"},
		{"bad schedule date", "/v1/production/schedule", `{"order_ids":[],"date":"tomorrow"}`, "invalid_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, http.MethodPost, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d %s", rec.Code, rec.Body.String())
			}
			if got := errorCode(t, rec); got != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, got)
			}
		})
	}
}

func TestScheduleRoute_UnknownOrdersBecomeFailures(t *testing.T) {
	router := newTestRouter(t)

	body := `{"order_ids":["` + uuid.NewString() + `"],"direction":"forward","date":"2025-01-06"}`
	rec := do(router, http.MethodPost, "/v1/production/schedule", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	var result dto.ScheduleResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Expected schedule result: %v", err)
	}
	if len(result.Failures) != 1 || result.Failures[0].Code != entities.CodeOrderNotFound {
		t.Errorf("Expected one order_not_found failure, got %+v", result.Failures)
	}
}
