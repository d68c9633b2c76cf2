// Package config loads the server and CLI configuration.
//
// Configuration comes from an optional YAML file, named by the
// LEDGER_CONFIG environment variable or a -config flag, with environment
// variables applied on top:
//
//	LISTEN_ADDR   listen_addr
//	DB_DRIVER     database.driver
//	DB_DSN        database.dsn (DB_PATH is accepted as an alias)
//	LOG_LEVEL     log_level
//	CURRENCY      currency
//
// Without a file the defaults are used.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/splitledger/pkg/logging"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "LEDGER_CONFIG"

// Config is the configuration of the ledger server and CLI.
type Config struct {
	// ListenAddr is the address the server listens on.
	// Default: :8080
	ListenAddr string `yaml:"listen_addr"`

	Database DatabaseConfig `yaml:"database"`

	// LogLevel is one of debug, info, warn, error.
	// Default: info
	LogLevel string `yaml:"log_level"`

	// Currency is the ISO 4217 code used when displaying amounts.
	// Amounts themselves are stored without a currency.
	// Default: USD
	Currency string `yaml:"currency"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	// Default: sqlite
	Driver string `yaml:"driver"`

	// DSN is the SQLite file path or the PostgreSQL connection string.
	// Default: ./data/ledger.db
	DSN string `yaml:"dsn"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "./data/ledger.db",
		},
		LogLevel: "info",
		Currency: "USD",
	}
}

// Load reads the file named by path, or by LEDGER_CONFIG when path is
// empty, and applies environment overrides. With neither set it returns
// the defaults plus overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	set := func(dst *string, keys ...string) {
		for _, key := range keys {
			if value := os.Getenv(key); value != "" {
				*dst = value
				return
			}
		}
	}
	set(&c.ListenAddr, "LISTEN_ADDR")
	set(&c.Database.Driver, "DB_DRIVER")
	set(&c.Database.DSN, "DB_DSN", "DB_PATH")
	set(&c.LogLevel, "LOG_LEVEL")
	set(&c.Currency, "CURRENCY")
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.ListenAddr == "" {
		errs = append(errs, fmt.Errorf("listen_addr is required"))
	}

	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver))
	}

	if c.Database.DSN == "" {
		errs = append(errs, fmt.Errorf("database.dsn is required"))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	if len(c.Currency) != 3 {
		errs = append(errs, fmt.Errorf("currency must be a 3-letter code, got %q", c.Currency))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}
