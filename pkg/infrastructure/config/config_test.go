package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"MRP_ENV", "MRP_DB_DRIVER", "MRP_DB_DSN", "MRP_HTTP_ADDR",
		"MRP_PLANNING_HORIZON_DAYS", "MRP_PERIOD_DAYS", "MRP_MAX_SEARCH_DAYS", "MRP_METRICS_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("Expected sqlite driver, got %s", cfg.DBDriver)
	}
	if cfg.PlanningHorizonDays != 90 {
		t.Errorf("Expected horizon 90, got %d", cfg.PlanningHorizonDays)
	}
	if cfg.PeriodDays != 7 {
		t.Errorf("Expected period length 7, got %d", cfg.PeriodDays)
	}
	if cfg.MaxSearchDays != 365 {
		t.Errorf("Expected max search days 365, got %d", cfg.MaxSearchDays)
	}
	if !cfg.MetricsEnabled {
		t.Error("Expected metrics enabled by default")
	}
	if cfg.Production() {
		t.Error("Expected development mode by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MRP_ENV", "production")
	t.Setenv("MRP_DB_DRIVER", "Postgres")
	t.Setenv("MRP_PLANNING_HORIZON_DAYS", "30")
	t.Setenv("MRP_METRICS_ENABLED", "off")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Errorf("Expected postgres driver, got %s", cfg.DBDriver)
	}
	if cfg.PlanningHorizonDays != 30 {
		t.Errorf("Expected horizon 30, got %d", cfg.PlanningHorizonDays)
	}
	if cfg.MetricsEnabled {
		t.Error("Expected metrics disabled")
	}
	if !cfg.Production() {
		t.Error("Expected production mode")
	}
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name        string
		key, value  string
		expectError string
	}{
		{"unknown driver", "MRP_DB_DRIVER", "mysql", "unsupported MRP_DB_DRIVER"},
		{"negative horizon", "MRP_PLANNING_HORIZON_DAYS", "-5", "MRP_PLANNING_HORIZON_DAYS must be positive"},
		{"zero search window", "MRP_MAX_SEARCH_DAYS", "0", "MRP_MAX_SEARCH_DAYS must be positive"},
		{"unparsable search window", "MRP_MAX_SEARCH_DAYS", "abc", `MRP_MAX_SEARCH_DAYS must be an integer, got "abc"`},
		{"unparsable period length", "MRP_PERIOD_DAYS", "not-a-number", "MRP_PERIOD_DAYS must be an integer"},
		{"unparsable metrics flag", "MRP_METRICS_ENABLED", "maybe", "MRP_METRICS_ENABLED must be a boolean"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !strings.Contains(err.Error(), tc.expectError) {
				t.Errorf("Expected error containing '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}
