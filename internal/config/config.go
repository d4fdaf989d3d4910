// Package config handles loading and parsing application configuration.
// The config file path comes from (in priority order):
//  1. The --config command-line flag
//  2. The CONFIG_PATH environment variable
//
// Every field can additionally be overridden by its env:"..." variable.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Supported values for Config.Env.
const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

// Supported database/sql driver names for the durable medium.
const (
	DriverCGO    = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPureGo = "sqlite"  // modernc.org/sqlite
)

// ErrNoConfigPath is returned when neither the flag nor CONFIG_PATH is set.
var ErrNoConfigPath = errors.New("config path is not set: use --config flag or CONFIG_PATH env var")

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging" or "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// LogLevel overrides the env-derived level when set (debug, info, warn, error).
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	Storage    Storage    `yaml:"storage"`
	HTTPServer HTTPServer `yaml:"http_server"`
	Import     Import     `yaml:"import"`
}

// Storage configures the durable key-value medium behind the collection store.
type Storage struct {
	// Path is the filesystem path to the SQLite .db file.
	Path string `yaml:"path" env:"STORAGE_PATH" env-required:"true"`

	// Driver selects the database/sql driver: "sqlite3" or "sqlite".
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite3"`

	// QuotaBytes caps the size of a single serialized collection. 0 disables it.
	QuotaBytes int64 `yaml:"quota_bytes" env:"STORAGE_QUOTA_BYTES" env-default:"5242880"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Addr            string        `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_SERVER_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Import holds CSV import limits.
type Import struct {
	// MaxUploadBytes is the largest CSV body accepted by the HTTP import endpoint.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" env:"IMPORT_MAX_UPLOAD_BYTES" env-default:"1048576"`
}

// ResolvePath picks the config path: the flag value wins over CONFIG_PATH.
func ResolvePath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p, nil
	}
	return "", ErrNoConfigPath
}

// Load reads the YAML file at path, applies env overrides and defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values cleanenv cannot express as tags.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvStaging, EnvProd:
	default:
		return fmt.Errorf("invalid env %q: want one of dev, staging, prod", c.Env)
	}

	switch c.Storage.Driver {
	case DriverCGO, DriverPureGo:
	default:
		return fmt.Errorf("invalid storage driver %q: want sqlite3 or sqlite", c.Storage.Driver)
	}

	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("storage quota_bytes must not be negative, got %d", c.Storage.QuotaBytes)
	}
	if c.Import.MaxUploadBytes <= 0 {
		return fmt.Errorf("import max_upload_bytes must be positive, got %d", c.Import.MaxUploadBytes)
	}

	return nil
}
