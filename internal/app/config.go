package app

import (
	"errors"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	PGDSN        string `envconfig:"PG_DSN" required:"true"`
	PGMaxConns   int32  `envconfig:"PG_MAX_CONNS" default:"10"`
	RedisAddr    string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string `envconfig:"KAFKA_TOPIC" default:"billboard.ledger"`

	DashboardCacheTTL     time.Duration `envconfig:"DASHBOARD_CACHE_TTL" default:"5m"`
	DashboardExpiryWindow time.Duration `envconfig:"DASHBOARD_EXPIRY_WINDOW" default:"720h"`
	DashboardListLimit    int           `envconfig:"DASHBOARD_LIST_LIMIT" default:"10"`

	Locale         string `envconfig:"LOCALE" default:"ar-LY"`
	CurrencySymbol string `envconfig:"CURRENCY_SYMBOL" default:"د.ل"`

	RateLimitPerMinute int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"120"`

	WarmupCron      string `envconfig:"WARMUP_CRON" default:"*/10 * * * *"`
	CatalogSyncCron string `envconfig:"CATALOG_SYNC_CRON" default:"0 3 * * *"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.PGDSN) == "" {
		return nil, errors.New("postgres dsn must be provided")
	}
	if cfg.DashboardListLimit <= 0 {
		return nil, errors.New("dashboard list limit must be positive")
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Brokers splits KAFKA_BROKERS into addresses. Empty means events are not published.
func (c *Config) Brokers() []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
