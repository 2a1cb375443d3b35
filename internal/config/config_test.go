// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for filmpilot.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/filmpilot/filmpilot-tui/internal/model"
)

// =============================================================================
// DEFAULTS TESTS
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.UI.Theme != "day" {
		t.Errorf("UI.Theme = %q", cfg.UI.Theme)
	}
	if cfg.UI.StreamIntervalMs != 40 {
		t.Errorf("UI.StreamIntervalMs = %d", cfg.UI.StreamIntervalMs)
	}
	if cfg.Amap.JSKey != model.DefaultAmapJSKey {
		t.Errorf("Amap.JSKey = %q", cfg.Amap.JSKey)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
}

func TestLoadFromPath_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[backend]
base_url = "http://film.example:9000"

[ui]
theme = "night"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Backend.BaseURL != "http://film.example:9000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.UI.Theme != "night" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	// Unspecified values keep their defaults.
	if cfg.Backend.TimeoutSecs != 60 {
		t.Errorf("TimeoutSecs = %d, want 60", cfg.Backend.TimeoutSecs)
	}
}

func TestLoadFromPath_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[ui]\ntheme = \"night\"\n"), 0600)

	t.Setenv("FILMPILOT_THEME", "eye")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.UI.Theme != "eye" {
		t.Errorf("Theme = %q, want 'eye'", cfg.UI.Theme)
	}
}

func TestLoadFromPath_InvalidTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600)

	if _, err := LoadFromPath(path); err == nil {
		t.Error("expected validation error for unknown theme")
	}
}

func TestValidate_DailyPicksRange(t *testing.T) {
	cfg := Default()
	cfg.UI.DailyPicks = 99

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for daily_picks out of range")
	}
}

// =============================================================================
// SAVE TESTS
// =============================================================================

func TestSaveToPath_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.UI.Theme = "eye"
	cfg.Backend.BaseURL = "http://saved.example"

	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("permissions = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.UI.Theme != "eye" {
		t.Errorf("Theme = %q", loaded.UI.Theme)
	}
	if loaded.Backend.BaseURL != "http://saved.example" {
		t.Errorf("BaseURL = %q", loaded.Backend.BaseURL)
	}
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	SaveToPath(Default(), path)

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	cfg := Default()
	cfg.UI.Theme = "night"
	if err := SaveToPath(cfg, path); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-reloaded:
		if got.UI.Theme != "night" {
			t.Errorf("reloaded Theme = %q", got.UI.Theme)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never fired")
	}
}

func TestWatcher_InertUntilWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	SaveToPath(Default(), path)

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	// Construction alone must not start event delivery.
	cfg := Default()
	cfg.UI.Theme = "night"
	if err := SaveToPath(cfg, path); err != nil {
		t.Fatal(err)
	}
	select {
	case <-reloaded:
		t.Fatal("watcher fired before Watch was called")
	case <-time.After(500 * time.Millisecond):
	}

	if err := w.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	cfg.UI.Theme = "eye"
	if err := SaveToPath(cfg, path); err != nil {
		t.Fatal(err)
	}
	select {
	case got := <-reloaded:
		if got.UI.Theme != "eye" {
			t.Errorf("reloaded Theme = %q", got.UI.Theme)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never fired after Watch")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	SaveToPath(Default(), path)

	reloaded := make(chan *Config, 4)
	w, err := NewWatcher(path, func(cfg *Config) { reloaded <- cfg })
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	w.Watch()

	os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0600)

	select {
	case <-reloaded:
		t.Error("watcher fired for an unrelated file")
	case <-time.After(500 * time.Millisecond):
	}
}
