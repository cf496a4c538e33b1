// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backend names.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
	BackendRedis    = "redis"
)

// DefaultCartKey is the storage key the serialized cart lives under.
const DefaultCartKey = "shoppingCart"

// Config holds all storefront configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   Storage         `yaml:"storage"`
	Checkout  CheckoutConfig  `yaml:"checkout"`
	Logging   Logging         `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Storage selects and configures the cart persistence backend.
type Storage struct {
	Backend string `yaml:"backend"` // memory, file, sqlite, postgres, mysql, redis
	Path    string `yaml:"path"`    // directory for file, database file for sqlite
	DSN     string `yaml:"dsn"`     // postgres and mysql
	Addr    string `yaml:"addr"`    // redis
	Prefix  string `yaml:"prefix"`  // redis key prefix
	CartKey string `yaml:"cart_key"`
	Async   bool   `yaml:"async"`
}

// CheckoutConfig limits order submissions.
type CheckoutConfig struct {
	SubmitsPerMinute int `yaml:"submits_per_minute"`
	Burst            int `yaml:"burst"`
}

// Logging configures the zap logger.
type Logging struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// TelemetryConfig configures trace export. An empty endpoint disables export.
type TelemetryConfig struct {
	ServiceName  string `yaml:"service_name"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Storage: Storage{
			Backend: BackendFile,
			Path:    ".storefront",
			Prefix:  "storefront:",
			CartKey: DefaultCartKey,
		},
		Checkout: CheckoutConfig{
			SubmitsPerMinute: 30,
			Burst:            5,
		},
		Logging: Logging{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "storefront",
			Insecure:    true,
		},
	}
}

// Load reads path (if non-empty) over the defaults, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.HTTP.Addr = getEnv("STOREFRONT_ADDR", c.HTTP.Addr)
	c.Storage.Backend = getEnv("STOREFRONT_STORAGE", c.Storage.Backend)
	c.Storage.DSN = getEnv("STOREFRONT_STORAGE_DSN", c.Storage.DSN)
	c.Storage.Path = getEnv("STOREFRONT_STORAGE_PATH", c.Storage.Path)
	c.Storage.Addr = getEnv("REDIS_ADDR", c.Storage.Addr)
	c.Storage.CartKey = getEnv("STOREFRONT_CART_KEY", c.Storage.CartKey)
	c.Logging.Level = getEnv("STOREFRONT_LOG_LEVEL", c.Logging.Level)
	c.Telemetry.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.OTLPEndpoint)

	if v, ok := os.LookupEnv("STOREFRONT_ASYNC"); ok {
		async, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid STOREFRONT_ASYNC %q: %w", v, err)
		}
		c.Storage.Async = async
	}
	return nil
}

// Validate reports the first configuration error.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendFile, BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage backend %s requires a path", c.Storage.Backend)
		}
	case BackendPostgres, BackendMySQL:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage backend %s requires a dsn", c.Storage.Backend)
		}
	case BackendRedis:
		if c.Storage.Addr == "" {
			return errors.New("storage backend redis requires an addr")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Storage.CartKey == "" {
		return errors.New("storage cart_key must not be empty")
	}
	if c.Checkout.SubmitsPerMinute <= 0 || c.Checkout.Burst <= 0 {
		return errors.New("checkout rate limit must be positive")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
