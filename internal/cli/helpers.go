// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared wiring for filmpilot CLI commands.
package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/filmpilot/filmpilot-tui/internal/api"
	"github.com/filmpilot/filmpilot-tui/internal/config"
	"github.com/filmpilot/filmpilot-tui/internal/storage"
	"github.com/filmpilot/filmpilot-tui/internal/stream"
)

// LoadConfig loads the configuration and applies CLI overrides on top.
func LoadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, &CommandError{Command: "config", Action: "load", Reason: "configuration is invalid", Err: err}
	}
	if args.BaseURL != "" {
		cfg.Backend.BaseURL = args.BaseURL
	}
	if args.Theme != "" {
		cfg.UI.Theme = strings.ToLower(args.Theme)
	}
	return cfg, nil
}

// NewAPIClient builds a backend client from the configuration.
func NewAPIClient(cfg *config.Config) *api.Client {
	return api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:           cfg.Backend.BaseURL,
		Timeout:           time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
	})
}

// OpenLocalStore opens the local store at the configured path.
func OpenLocalStore(cfg *config.Config) (*storage.LocalStore, error) {
	path := cfg.Storage.DatabasePath
	if path == "" {
		var err error
		path, err = storage.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return storage.Open(path)
}

// RenderMarkdown renders markdown for terminal output. Falls back to the
// raw text when rendering is unavailable or colors are disabled.
func RenderMarkdown(text string, width int) string {
	if !ColorsEnabled() {
		return text
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// PrintReply writes a bot reply to stdout. On a terminal it reveals the
// text rune by rune unless noStream is set; piped output is always printed
// at once.
func PrintReply(text string, noStream bool, interval time.Duration) {
	if noStream || !IsStdoutTTY() {
		fmt.Println(RenderMarkdown(text, GetTerminalWidth()))
		return
	}

	prev := 0
	for prefix := range stream.Reveal(context.Background(), text, interval) {
		fmt.Print(prefix[prev:])
		prev = len(prefix)
	}
	fmt.Println()
}
