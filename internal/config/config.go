// Package config resolves application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by the server.
const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvAPIKey       = "API_KEY"
	EnvLogLevel     = "LOG_LEVEL"
)

// DefaultDatabaseDSN is the SQLite file used when no DSN is configured.
const DefaultDatabaseDSN = "luma_settings.db"

// ErrMissingAPIKey indicates no shared API key is present in the environment
// or the config file. The server refuses to start without one.
var ErrMissingAPIKey = errors.New("missing api key (set `api-key` in config file or env API_KEY)")

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// fileConfig maps the YAML fields read from the config file.
type fileConfig struct {
	DatabaseDSN string `yaml:"database-dsn"`
	Database    struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`
	APIKey   string `yaml:"api-key"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log-level"`
}

// readFile parses the config file, treating a missing file as empty config.
func readFile(configPath string) (fileConfig, error) {
	var cfg fileConfig
	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		if os.IsNotExist(errRead) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", errRead)
	}
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return cfg, fmt.Errorf("parse config file: %w", errUnmarshal)
	}
	return cfg, nil
}

// LoadDatabaseDSN resolves the database DSN: env override, then the config
// file, then the default local SQLite file.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}
	cfg, err := readFile(configPath)
	if err != nil {
		return "", err
	}
	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return DefaultDatabaseDSN, nil
}

// LoadAPIKey resolves the shared API key: env override, then the config file.
func LoadAPIKey(configPath string) (string, error) {
	if key := strings.TrimSpace(os.Getenv(EnvAPIKey)); key != "" {
		return key, nil
	}
	cfg, err := readFile(configPath)
	if err != nil {
		return "", err
	}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		return key, nil
	}
	return "", ErrMissingAPIKey
}

// LoadPort returns the configured port, or 0 when the config file sets none.
func LoadPort(configPath string) int {
	cfg, err := readFile(configPath)
	if err != nil || cfg.Port <= 0 || cfg.Port > 65535 {
		return 0
	}
	return cfg.Port
}

// LoadLogLevel resolves the log level name, defaulting to "info".
func LoadLogLevel(configPath string) string {
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		return level
	}
	cfg, err := readFile(configPath)
	if err == nil {
		if level := strings.TrimSpace(cfg.LogLevel); level != "" {
			return level
		}
	}
	return "info"
}
