package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal containers

	"github.com/joho/godotenv"
)

// Marker store backends.
const (
	MarkerStorePostgres = "postgres"
	MarkerStoreRedis    = "redis"
	MarkerStoreMemory   = "memory"
)

// DefaultDispatchTimeout bounds one dispatch cycle when DISPATCH_TIMEOUT is unset.
const DefaultDispatchTimeout = 2 * time.Minute

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	DatabaseURL     string
	AdminTelegramID int64
	LogLevel        string
	Environment     string

	Timezone        *time.Location // location the cron expressions are evaluated in
	CronSpecDaily   string         // daily dispatch
	CronSpecWakeup  string         // optional periodic wake-up, empty disables it
	RunOnStart      bool
	DispatchPace    time.Duration // delay between consecutive notifications
	DispatchTimeout time.Duration

	MarkerStore string
	RedisURL    string
	MarkerTTL   time.Duration // 0 keeps markers forever

	HTTPAddr string
	APIToken string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables and a missing .env is fine.
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from lookup, which has the os.LookupEnv signature.
func FromLookup(lookup func(string) (string, bool)) (*AppConfig, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = get("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	adminIDStr := get("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	cfg.DatabaseURL = get("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(get("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(get("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	tz := get("TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}
	cfg.Timezone, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	cfg.CronSpecDaily = get("CRON_SPEC_DAILY")
	if cfg.CronSpecDaily == "" {
		cfg.CronSpecDaily = "0 9 * * *" // 09:00 every day
	}
	cfg.CronSpecWakeup = get("CRON_SPEC_WAKEUP")

	if v := get("RUN_ON_START"); v != "" {
		cfg.RunOnStart, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RUN_ON_START: %w", err)
		}
	}

	if cfg.DispatchPace, err = durationOr(get("DISPATCH_PACE"), 3*time.Second); err != nil {
		return nil, fmt.Errorf("invalid DISPATCH_PACE: %w", err)
	}
	if cfg.DispatchTimeout, err = durationOr(get("DISPATCH_TIMEOUT"), DefaultDispatchTimeout); err != nil {
		return nil, fmt.Errorf("invalid DISPATCH_TIMEOUT: %w", err)
	}
	if cfg.DispatchTimeout == 0 {
		return nil, fmt.Errorf("invalid DISPATCH_TIMEOUT: must be positive")
	}

	cfg.MarkerStore = strings.ToLower(get("MARKER_STORE"))
	if cfg.MarkerStore == "" {
		cfg.MarkerStore = MarkerStorePostgres
	}
	switch cfg.MarkerStore {
	case MarkerStorePostgres, MarkerStoreMemory:
	case MarkerStoreRedis:
		cfg.RedisURL = get("REDIS_URL")
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is not set (required by MARKER_STORE=redis)")
		}
	default:
		return nil, fmt.Errorf("invalid MARKER_STORE %q", cfg.MarkerStore)
	}
	if cfg.MarkerTTL, err = durationOr(get("MARKER_TTL"), 0); err != nil {
		return nil, fmt.Errorf("invalid MARKER_TTL: %w", err)
	}

	cfg.HTTPAddr = get("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	cfg.APIToken = get("API_TOKEN")

	return cfg, nil
}

func durationOr(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", v)
	}
	return d, nil
}
