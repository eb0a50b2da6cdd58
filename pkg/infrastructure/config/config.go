package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds process settings read from the environment
type Config struct {
	Env                 string
	DBDriver            string
	DBDSN               string
	HTTPAddr            string
	PlanningHorizonDays int
	PeriodDays          int
	MaxSearchDays       int
	MetricsEnabled      bool
}

// Load reads MRP_* variables, applying defaults for anything unset
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("MRP_ENV", "development"),
		DBDriver: strings.ToLower(getEnv("MRP_DB_DRIVER", "sqlite")),
		DBDSN:    getEnv("MRP_DB_DSN", "file:mrp.db?_foreign_keys=on"),
		HTTPAddr: getEnv("MRP_HTTP_ADDR", ":8080"),
	}

	var err error
	if cfg.PlanningHorizonDays, err = envInt("MRP_PLANNING_HORIZON_DAYS", 90); err != nil {
		return nil, err
	}
	if cfg.PeriodDays, err = envInt("MRP_PERIOD_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.MaxSearchDays, err = envInt("MRP_MAX_SEARCH_DAYS", 365); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled, err = envBool("MRP_METRICS_ENABLED", true); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported MRP_DB_DRIVER %q (expected sqlite or postgres)", cfg.DBDriver)
	}
	if cfg.PlanningHorizonDays <= 0 {
		return nil, fmt.Errorf("MRP_PLANNING_HORIZON_DAYS must be positive, got %d", cfg.PlanningHorizonDays)
	}
	if cfg.PeriodDays <= 0 {
		return nil, fmt.Errorf("MRP_PERIOD_DAYS must be positive, got %d", cfg.PeriodDays)
	}
	if cfg.MaxSearchDays <= 0 {
		return nil, fmt.Errorf("MRP_MAX_SEARCH_DAYS must be positive, got %d", cfg.MaxSearchDays)
	}
	return cfg, nil
}

// Production reports whether the logger and stores should run in production mode
func (c *Config) Production() bool {
	return c.Env == "prod" || c.Env == "production"
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return i, nil
}

func envBool(key string, def bool) (bool, error) {
	switch v := strings.ToLower(strings.TrimSpace(os.Getenv(key))); v {
	case "":
		return def, nil
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
}
