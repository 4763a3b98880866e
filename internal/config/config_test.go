package config

import (
	"errors"
	"log/slog"
	"testing"
)

func validConfig() Config {
	return Config{
		ServerURL: "http://localhost:8000",
		DataDir:   "/tmp/sooth-data",
		Theme:     ThemeDark,
		LogLevel:  "info",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"light theme", func(c *Config) { c.Theme = ThemeLight }, nil},
		{"https url", func(c *Config) { c.ServerURL = "https://sooth.example.com" }, nil},
		{"empty url", func(c *Config) { c.ServerURL = "" }, ErrInvalidServerURL},
		{"no scheme", func(c *Config) { c.ServerURL = "localhost:8000" }, ErrInvalidServerURL},
		{"no host", func(c *Config) { c.ServerURL = "http://" }, ErrInvalidServerURL},
		{"unknown theme", func(c *Config) { c.Theme = "solarized" }, ErrInvalidTheme},
		{"empty theme", func(c *Config) { c.Theme = "" }, ErrInvalidTheme},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, ErrInvalidDataDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Level(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg := Config{LogLevel: tt.in}
			if got := cfg.Level(); got != tt.want {
				t.Errorf("Level(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
