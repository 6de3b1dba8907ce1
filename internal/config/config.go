// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"kingdomseekers/internal/clients"
	"kingdomseekers/internal/storage"
)

// Config holds all kscli configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// APIConfig configures the request layer.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout is a Go duration; empty or "0s" keeps the transport default.
	Timeout   string  `yaml:"timeout"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 disables
	Burst     int     `yaml:"burst"`
}

// StorageConfig configures where the login token is persisted.
type StorageConfig struct {
	Driver     string `yaml:"driver"` // sqlite, postgres
	DSN        string `yaml:"dsn"`
	Passphrase string `yaml:"passphrase"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

type TelemetryConfig struct {
	// Endpoint is the OTLP/HTTP collector host:port; empty disables export.
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: clients.DefaultBaseURL,
			Burst:   1,
		},
		Storage: StorageConfig{
			Driver: storage.DriverSQLite,
			DSN:    DefaultDatabasePath(),
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "kscli",
		},
	}
}

// DefaultDatabasePath is the SQLite file under the user config directory.
func DefaultDatabasePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "kingdomseekers.db"
	}
	return filepath.Join(dir, "kingdomseekers", "local.db")
}

// DefaultConfigPath is kscli.yaml under the user config directory.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "kscli.yaml"
	}
	return filepath.Join(dir, "kingdomseekers", "kscli.yaml")
}

// Load layers defaults, the YAML file at path (skipped when empty or
// missing), the .env files and the process environment, in that order.
// Variables already set in the environment win over .env entries.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	c.API.BaseURL = getEnv("KS_API_BASE_URL", c.API.BaseURL)
	c.API.Timeout = getEnv("KS_API_TIMEOUT", c.API.Timeout)
	if v := getEnv("KS_API_RATE_LIMIT", ""); v != "" {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid KS_API_RATE_LIMIT %q: %w", v, err)
		}
		c.API.RateLimit = limit
	}
	c.Storage.Driver = getEnv("KS_STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.DSN = getEnv("KS_STORAGE_DSN", c.Storage.DSN)
	c.Storage.Passphrase = getEnv("KS_STORAGE_PASSPHRASE", c.Storage.Passphrase)
	c.Logging.Level = getEnv("KS_LOG_LEVEL", c.Logging.Level)
	c.Logging.Format = getEnv("KS_LOG_FORMAT", c.Logging.Format)
	c.Telemetry.Endpoint = getEnv("KS_OTEL_ENDPOINT", c.Telemetry.Endpoint)
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Timeout returns the API timeout; 0 when unset or unparsable.
func (c *Config) Timeout() time.Duration {
	if c.API.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout != "" {
		if d, err := time.ParseDuration(c.API.Timeout); err != nil || d < 0 {
			return fmt.Errorf("invalid api.timeout %q", c.API.Timeout)
		}
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must not be negative, got %v", c.API.RateLimit)
	}
	switch c.Storage.Driver {
	case storage.DriverSQLite, storage.DriverPostgres:
	default:
		return fmt.Errorf("invalid storage.driver %q (must be %q or %q)",
			c.Storage.Driver, storage.DriverSQLite, storage.DriverPostgres)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logging.format %q (must be console or json)", c.Logging.Format)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.TrimSpace(value)
	}
	return defaultValue
}
