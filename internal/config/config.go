// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for filmpilot.
//
// Supports TOML configuration with sensible defaults, environment variable
// overrides, and validation.
//
// Configuration file location:
//   - ~/.filmpilot/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/filmpilot/filmpilot-tui/internal/model"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete filmpilot configuration.
type Config struct {
	Version string `toml:"version"`

	// Backend is the recommendation backend connection.
	Backend BackendConfig `toml:"backend"`

	// Amap is the map web service connection.
	Amap AmapConfig `toml:"amap"`

	// UI holds presentation settings.
	UI UIConfig `toml:"ui"`

	// Storage holds local persistence paths.
	Storage StorageConfig `toml:"storage"`
}

// BackendConfig contains the FilmPilot backend connection settings.
type BackendConfig struct {
	// BaseURL is the backend base URL.
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the request timeout in seconds. The workflow endpoint
	// runs an LLM round-trip, so this is generous.
	TimeoutSecs int `toml:"timeout_secs"`
	// RequestsPerSecond caps outgoing request rate.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// AmapConfig contains the AMap web service settings.
type AmapConfig struct {
	// Key is the web service API key.
	Key string `toml:"key"`
	// JSKey is the key embedded into route payloads for browser clients
	// reading the same snapshot.
	JSKey string `toml:"js_key"`
	// ReadyTimeoutSecs bounds the one-time service readiness check.
	ReadyTimeoutSecs int `toml:"ready_timeout_secs"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme is one of "day", "night", "eye".
	Theme string `toml:"theme"`
	// StreamIntervalMs is the reveal cadence of bot replies in milliseconds.
	StreamIntervalMs int `toml:"stream_interval_ms"`
	// DailyPicks is how many daily recommendations to show (0 disables).
	DailyPicks int `toml:"daily_picks"`
}

// StorageConfig contains local persistence paths.
type StorageConfig struct {
	// DatabasePath is the local store location (empty = ~/.filmpilot/local.db).
	DatabasePath string `toml:"database_path"`
	// VaultPath is the credential secret location (empty = ~/.filmpilot/vault.key).
	VaultPath string `toml:"vault_path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// ValidThemes are the accepted theme names.
var ValidThemes = []string{"day", "night", "eye"}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Backend: BackendConfig{
			BaseURL:           "http://localhost:8000",
			TimeoutSecs:       60,
			RequestsPerSecond: 5,
		},
		Amap: AmapConfig{
			Key:              model.DefaultAmapSecurityKey,
			JSKey:            model.DefaultAmapJSKey,
			ReadyTimeoutSecs: 5,
		},
		UI: UIConfig{
			Theme:            "day",
			StreamIntervalMs: 40,
			DailyPicks:       3,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the configuration directory (~/.filmpilot).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".filmpilot"), nil
}

// Path returns the configuration file path (~/.filmpilot/config.toml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration file, applies environment overrides, fills
// defaults, and validates. A missing file is not an error: defaults apply.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	def := Default()

	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = def.Backend.BaseURL
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = def.Backend.TimeoutSecs
	}
	if c.Backend.RequestsPerSecond == 0 {
		c.Backend.RequestsPerSecond = def.Backend.RequestsPerSecond
	}
	if c.Amap.Key == "" {
		c.Amap.Key = def.Amap.Key
	}
	if c.Amap.JSKey == "" {
		c.Amap.JSKey = def.Amap.JSKey
	}
	if c.Amap.ReadyTimeoutSecs == 0 {
		c.Amap.ReadyTimeoutSecs = def.Amap.ReadyTimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.UI.StreamIntervalMs == 0 {
		c.UI.StreamIntervalMs = def.UI.StreamIntervalMs
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies FILMPILOT_* environment variables on top of the
// file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("FILMPILOT_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("FILMPILOT_AMAP_KEY"); v != "" {
		c.Amap.Key = v
	}
	if v := os.Getenv("FILMPILOT_THEME"); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
	if v := os.Getenv("FILMPILOT_DB_PATH"); v != "" {
		c.Storage.DatabasePath = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := url.Parse(c.Backend.BaseURL); err != nil {
		return ValidationError{Field: "backend.base_url", Message: "not a valid URL"}
	}
	if c.Backend.TimeoutSecs < 0 {
		return ValidationError{Field: "backend.timeout_secs", Message: "must not be negative"}
	}
	if c.UI.StreamIntervalMs < 0 {
		return ValidationError{Field: "ui.stream_interval_ms", Message: "must not be negative"}
	}
	if c.UI.DailyPicks < 0 || c.UI.DailyPicks > 10 {
		return ValidationError{Field: "ui.daily_picks", Message: "must be between 0 and 10"}
	}

	valid := false
	for _, theme := range ValidThemes {
		if c.UI.Theme == theme {
			valid = true
			break
		}
	}
	if !valid {
		return ValidationError{Field: "ui.theme", Message: "must be one of day, night, eye"}
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the default location.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to a specific file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveToPath(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# filmpilot configuration file")
	fmt.Fprintln(file, "# Generated by filmpilot - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
