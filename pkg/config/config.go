package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App   AppConfig
	Woo   WooConfig
	Redis RedisConfig
	DB    DBConfig
	Cart  CartConfig
	Flags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Woo.ensureCredentials(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PRIVASTORE_APP_ENV" default:"development"`
	Port         string `envconfig:"PRIVASTORE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"PRIVASTORE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRIVASTORE_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"PRIVASTORE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// WooConfig carries the upstream WooCommerce REST credentials. All three of
// base URL, consumer key, and consumer secret must be present; there are no
// embedded fallbacks.
type WooConfig struct {
	BaseURL        string        `envconfig:"WOO_BASE_URL"`
	ConsumerKey    string        `envconfig:"WOO_CONSUMER_KEY"`
	ConsumerSecret string        `envconfig:"WOO_CONSUMER_SECRET"`
	WebhookSecret  string        `envconfig:"WOO_WEBHOOK_SECRET"`
	RequestTimeout time.Duration `envconfig:"WOO_REQUEST_TIMEOUT" default:"15s"`
}

func (w *WooConfig) ensureCredentials() error {
	missing := []string{}
	if strings.TrimSpace(w.BaseURL) == "" {
		missing = append(missing, "WOO_BASE_URL")
	}
	if strings.TrimSpace(w.ConsumerKey) == "" {
		missing = append(missing, "WOO_CONSUMER_KEY")
	}
	if strings.TrimSpace(w.ConsumerSecret) == "" {
		missing = append(missing, "WOO_CONSUMER_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing WooCommerce environment variables: %s", strings.Join(missing, ", "))
	}
	w.BaseURL = strings.TrimRight(strings.TrimSpace(w.BaseURL), "/")
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"PRIVASTORE_REDIS_URL"`
	Address      string        `envconfig:"PRIVASTORE_REDIS_ADDR" default:"localhost:6379"`
	Password     string        `envconfig:"PRIVASTORE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRIVASTORE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRIVASTORE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRIVASTORE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRIVASTORE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRIVASTORE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRIVASTORE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type DBConfig struct {
	Driver string `envconfig:"PRIVASTORE_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"PRIVASTORE_DB_DSN" default:"privastore.db"`

	MaxOpenConns    int           `envconfig:"PRIVASTORE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"PRIVASTORE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"PRIVASTORE_DB_CONN_MAX_LIFETIME" default:"1h"`
}

type CartConfig struct {
	// TTL bounds how long an abandoned cart slot survives. Zero keeps it forever.
	TTL time.Duration `envconfig:"PRIVASTORE_CART_TTL" default:"720h"`
}

type FeatureFlagsConfig struct {
	// StrictProductIDs rejects orders whose line items carry a non-numeric
	// product id instead of coercing it to 0.
	StrictProductIDs bool `envconfig:"PRIVASTORE_STRICT_PRODUCT_IDS" default:"false"`
	// AddonKeyHeuristic re-enables the legacy substring scan over arbitrary
	// meta_data keys when none of the known add-on keys match.
	AddonKeyHeuristic bool `envconfig:"PRIVASTORE_ADDON_KEY_HEURISTIC" default:"false"`
}
