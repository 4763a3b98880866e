// Package config provides application configuration with multi-source
// priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (SOOTH_* runtime overrides)
//  2. Config file (~/.sooth/config.yaml)
//  3. Default values
//
// Error Handling:
//   - Sentinel errors for Go-idiomatic checking with errors.Is()
//   - Wrapped with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidServerURL indicates the streaming endpoint URL is malformed.
	ErrInvalidServerURL = errors.New("invalid server URL")

	// ErrInvalidTheme indicates the theme is not one of dark or light.
	ErrInvalidTheme = errors.New("invalid theme")

	// ErrInvalidDataDir indicates the data directory path is empty.
	ErrInvalidDataDir = errors.New("invalid data directory")
)

// Theme names accepted in Config.Theme and the persisted theme record.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config stores application configuration.
type Config struct {
	// ServerURL is the base URL of the assistant streaming endpoint.
	ServerURL string `mapstructure:"server_url"`

	// DataDir holds the persistent key-value store.
	DataDir string `mapstructure:"data_dir"`

	// Theme is the initial theme before a persisted preference exists.
	Theme string `mapstructure:"theme"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".sooth")

	// Ensure directory exists (0750: store contents are user-private)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v, configDir)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is not an error, defaults apply
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("server_url", "http://localhost:8000")
	v.SetDefault("data_dir", filepath.Join(configDir, "data"))
	v.SetDefault("theme", ThemeDark)
	v.SetDefault("log_level", "info")
}

// bindEnvVariables binds environment overrides explicitly.
func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a panic here is a bug, not a
	// runtime error.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("server_url", "SOOTH_SERVER_URL")
	mustBind("data_dir", "SOOTH_DATA_DIR")
	mustBind("theme", "SOOTH_THEME")
	mustBind("log_level", "SOOTH_LOG_LEVEL")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidServerURL, c.ServerURL)
	}
	if c.Theme != ThemeDark && c.Theme != ThemeLight {
		return fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidTheme, c.Theme, ThemeDark, ThemeLight)
	}
	if c.DataDir == "" {
		return ErrInvalidDataDir
	}
	return nil
}

// Level converts the configured log level string to a slog.Level.
// Unknown values fall back to info.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
