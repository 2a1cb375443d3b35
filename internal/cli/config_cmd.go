// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command for the filmpilot CLI.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/filmpilot/filmpilot-tui/internal/config"
)

// HandleConfigCommand dispatches config subcommands.
func HandleConfigCommand(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(args)
	case "path":
		path, err := config.Path()
		if err != nil {
			return &CommandError{Command: "config", Action: "path", Reason: "cannot determine config path", Err: err}
		}
		fmt.Println(path)
		return nil
	case "set":
		return configSet(args)
	default:
		return &UsageError{Command: "config", Message: fmt.Sprintf("unknown subcommand %q (expected show, set, path)", args.Subcommand)}
	}
}

// configShow prints the effective configuration.
func configShow(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	fmt.Println("[backend]")
	fmt.Printf("  base_url            = %s\n", cfg.Backend.BaseURL)
	fmt.Printf("  timeout_secs        = %d\n", cfg.Backend.TimeoutSecs)
	fmt.Printf("  requests_per_second = %g\n", cfg.Backend.RequestsPerSecond)
	fmt.Println("[amap]")
	fmt.Printf("  key                 = %s\n", maskKey(cfg.Amap.Key))
	fmt.Printf("  js_key              = %s\n", maskKey(cfg.Amap.JSKey))
	fmt.Printf("  ready_timeout_secs  = %d\n", cfg.Amap.ReadyTimeoutSecs)
	fmt.Println("[ui]")
	fmt.Printf("  theme               = %s\n", cfg.UI.Theme)
	fmt.Printf("  stream_interval_ms  = %d\n", cfg.UI.StreamIntervalMs)
	fmt.Printf("  daily_picks         = %d\n", cfg.UI.DailyPicks)
	fmt.Println("[storage]")
	fmt.Printf("  database_path       = %s\n", orUnset(cfg.Storage.DatabasePath))
	fmt.Printf("  vault_path          = %s\n", orUnset(cfg.Storage.VaultPath))
	return nil
}

// configSet updates one key and saves the file.
func configSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return &UsageError{Command: "config", Message: "set requires a key and a value, e.g. config set ui.theme night"}
	}

	cfg, err := config.Load()
	if err != nil {
		return &CommandError{Command: "config", Action: "load", Reason: "configuration is invalid", Err: err}
	}

	if err := applyConfigValue(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return &CommandError{Command: "config", Action: "set", Reason: "resulting configuration is invalid", Err: err}
	}
	if err := config.Save(cfg); err != nil {
		return &CommandError{Command: "config", Action: "save", Reason: "cannot write config file", Err: err}
	}

	fmt.Printf("%s = %s\n", args.ConfigKey, args.ConfigVal)
	return nil
}

// applyConfigValue writes one dotted key into the config struct.
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "ui.theme":
		cfg.UI.Theme = strings.ToLower(value)
	case "ui.stream_interval_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &UsageError{Command: "config", Message: "ui.stream_interval_ms must be an integer"}
		}
		cfg.UI.StreamIntervalMs = n
	case "ui.daily_picks":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &UsageError{Command: "config", Message: "ui.daily_picks must be an integer"}
		}
		cfg.UI.DailyPicks = n
	case "backend.base_url":
		cfg.Backend.BaseURL = value
	case "backend.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &UsageError{Command: "config", Message: "backend.timeout_secs must be an integer"}
		}
		cfg.Backend.TimeoutSecs = n
	case "backend.requests_per_second":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &UsageError{Command: "config", Message: "backend.requests_per_second must be a number"}
		}
		cfg.Backend.RequestsPerSecond = f
	case "amap.key":
		cfg.Amap.Key = value
	case "amap.js_key":
		cfg.Amap.JSKey = value
	case "amap.ready_timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &UsageError{Command: "config", Message: "amap.ready_timeout_secs must be an integer"}
		}
		cfg.Amap.ReadyTimeoutSecs = n
	case "storage.database_path":
		cfg.Storage.DatabasePath = value
	case "storage.vault_path":
		cfg.Storage.VaultPath = value
	default:
		return &UsageError{Command: "config", Message: fmt.Sprintf("unknown key %q", key)}
	}
	return nil
}

// maskKey hides all but the first four characters of an API key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return key
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}

func orUnset(s string) string {
	if s == "" {
		return "(default)"
	}
	return s
}
