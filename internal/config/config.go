package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"labor-analytics/internal/analytics"
)

// Config holds environment-driven configuration.
type Config struct {
	Rippling struct {
		APIToken  string
		BaseURL   string  // default: https://rest.ripplingapis.com
		RateLimit float64 // requests per second, default 5
		Burst     int
		PageSize  int
	}
	MySQL struct {
		DSN string // e.g., user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
	}
	Redis struct {
		Addr     string // empty disables the entry cache
		Password string
		DB       int
		TTL      time.Duration
	}
	Sync struct {
		Timezone string // e.g., UTC (default), America/Los_Angeles
		Schedule string // cron spec, default: midnight daily
	}
	HTTP struct {
		Addr string
	}
	Analytics struct {
		Thresholds analytics.Thresholds
		LaborRates analytics.RateCard // overrides on top of the built-in rate card
	}
	LogLevel string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	var err error

	cfg.Rippling.APIToken = os.Getenv("RIPPLING_API_TOKEN")
	if cfg.Rippling.APIToken == "" {
		return cfg, errors.New("RIPPLING_API_TOKEN is required")
	}
	cfg.Rippling.BaseURL = getEnv("RIPPLING_BASE_URL", "https://rest.ripplingapis.com")
	if cfg.Rippling.RateLimit, err = getFloat("RIPPLING_RATE_LIMIT", 5); err != nil {
		return cfg, err
	}
	if cfg.Rippling.Burst, err = getInt("RIPPLING_BURST", 10); err != nil {
		return cfg, err
	}
	if cfg.Rippling.PageSize, err = getInt("RIPPLING_PAGE_SIZE", 100); err != nil {
		return cfg, err
	}

	cfg.MySQL.DSN = os.Getenv("MYSQL_DSN")

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if cfg.Redis.DB, err = getInt("REDIS_DB", 0); err != nil {
		return cfg, err
	}
	if cfg.Redis.TTL, err = getDuration("REDIS_TTL", 5*time.Minute); err != nil {
		return cfg, err
	}

	cfg.Sync.Timezone = getEnv("SYNC_TZ", "UTC")
	if _, err := time.LoadLocation(cfg.Sync.Timezone); err != nil {
		return cfg, fmt.Errorf("SYNC_TZ: %w", err)
	}
	cfg.Sync.Schedule = getEnv("SYNC_SCHEDULE", "0 0 * * *")

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	th := analytics.DefaultThresholds()
	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"OT_WATCH_HOURS", &th.OvertimeWatchHours},
		{"OT_HIGH_HOURS", &th.OvertimeHighHours},
		{"OT_LIMIT_HOURS", &th.OvertimeLimitHours},
		{"BUDGET_WARNING_PCT", &th.BudgetWarningPct},
		{"BUDGET_CRITICAL_PCT", &th.BudgetCriticalPct},
	} {
		if *f.dst, err = getFloat(f.key, *f.dst); err != nil {
			return cfg, err
		}
	}
	if th.OvertimeWatchHours > th.OvertimeHighHours || th.OvertimeHighHours > th.OvertimeLimitHours {
		return cfg, errors.New("overtime thresholds must satisfy OT_WATCH_HOURS <= OT_HIGH_HOURS <= OT_LIMIT_HOURS")
	}
	if th.BudgetWarningPct > th.BudgetCriticalPct {
		return cfg, errors.New("BUDGET_WARNING_PCT must not exceed BUDGET_CRITICAL_PCT")
	}
	cfg.Analytics.Thresholds = th

	if cfg.Analytics.LaborRates, err = parseRates(os.Getenv("LABOR_RATES")); err != nil {
		return cfg, err
	}

	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	return cfg, nil
}

// parseRates reads "Role=rate,Role=rate". Role names may contain spaces.
func parseRates(s string) (analytics.RateCard, error) {
	rates := analytics.RateCard{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		role, val, ok := strings.Cut(pair, "=")
		role = strings.TrimSpace(role)
		if !ok || role == "" {
			return nil, fmt.Errorf("LABOR_RATES: invalid pair %q", pair)
		}
		rate, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || rate < 0 {
			return nil, fmt.Errorf("LABOR_RATES: invalid rate for %q", role)
		}
		rates[role] = rate
	}
	return rates, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func getFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return f, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 5m", key)
	}
	return d, nil
}
