// Package config loads the octoops client configuration from a TOML
// file with environment-variable overrides for the backend URLs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the full client configuration.
type Config struct {
	API    APIConfig    `toml:"api"`
	Timers TimersConfig `toml:"timers"`
	Log    LogConfig    `toml:"log"`
}

// APIConfig points at the backend.
type APIConfig struct {
	BaseURL   string `toml:"base_url"`
	SocketURL string `toml:"socket_url"`
}

// TimersConfig tunes the simulation and toast windows, in seconds.
type TimersConfig struct {
	HeartbeatSeconds   int `toml:"heartbeat_seconds"`
	AgentWindowSeconds int `toml:"agent_window_seconds"`
	ToastSeconds       int `toml:"toast_seconds"`
}

// LogConfig controls the file logger. The TUI owns stdout, so logs only
// ever go to a file.
type LogConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:4000",
			SocketURL: "ws://localhost:4000/socket",
		},
		Timers: TimersConfig{
			HeartbeatSeconds:   15,
			AgentWindowSeconds: 3,
			ToastSeconds:       5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "octoops", "config.toml"), nil
}

// Load reads the config file at path, falling back to defaults when the
// file is absent. OCTOOPS_API_URL and OCTOOPS_SOCKET_URL override the
// file.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file is fine; use defaults.
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("OCTOOPS_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("OCTOOPS_SOCKET_URL"); v != "" {
		cfg.API.SocketURL = v
	}

	if cfg.Timers.HeartbeatSeconds <= 0 {
		cfg.Timers.HeartbeatSeconds = 15
	}
	if cfg.Timers.AgentWindowSeconds <= 0 {
		cfg.Timers.AgentWindowSeconds = 3
	}
	if cfg.Timers.ToastSeconds <= 0 {
		cfg.Timers.ToastSeconds = 5
	}
	return cfg, nil
}

// Heartbeat returns the heartbeat interval as a duration.
func (c Config) Heartbeat() time.Duration {
	return time.Duration(c.Timers.HeartbeatSeconds) * time.Second
}

// AgentWindow returns the agent active window as a duration.
func (c Config) AgentWindow() time.Duration {
	return time.Duration(c.Timers.AgentWindowSeconds) * time.Second
}

// ToastWindow returns the toast display window as a duration.
func (c Config) ToastWindow() time.Duration {
	return time.Duration(c.Timers.ToastSeconds) * time.Second
}
