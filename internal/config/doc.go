// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for filmpilot.
//
// Configuration comes from ~/.filmpilot/config.toml with FILMPILOT_*
// environment variables layered on top and built-in defaults beneath.
//
// # Key Types
//
//   - Config: the complete configuration tree
//   - Watcher: fsnotify-based live reload of the config file
//
// # Usage
//
// Load at startup:
//
//	cfg, err := config.Load()
//
// React to edits while running:
//
//	w, _ := config.NewWatcher(path, func(cfg *config.Config) { ... })
//	w.Watch()
//	defer w.Close()
package config
