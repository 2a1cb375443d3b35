// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main Bubble Tea view for the filmpilot TUI.
//
// This file defines the Bubble Tea message types and command constructors
// used by the chat interface. All blocking work lives in the command
// closures so Update never stalls the event loop.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/filmpilot/filmpilot-tui/internal/api"
	"github.com/filmpilot/filmpilot-tui/internal/config"
	"github.com/filmpilot/filmpilot-tui/internal/session"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// ExchangeMsg delivers a finished backend exchange for Apply.
type ExchangeMsg struct {
	Exchange *session.Exchange
}

// PermissionResolvedMsg reports the outcome of the location permission
// decision, after any geolocation lookup has completed.
type PermissionResolvedMsg struct {
	Outcome session.SubmitOutcome
}

// StreamTickMsg advances the typewriter reveal for one stream generation.
type StreamTickMsg struct {
	Gen uint64
}

// RouteUpdatedMsg signals that the route panel has new content to render.
// It is sent from the panel's planning goroutine via program.Send.
type RouteUpdatedMsg struct{}

// RecommendationsMsg delivers the daily movie picks.
type RecommendationsMsg struct {
	Movies []api.Movie
	Err    error
}

// ConfigReloadedMsg carries a freshly reloaded configuration. It is sent
// from the config watcher goroutine via program.Send.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// COMMAND CONSTRUCTORS
// =============================================================================

// sendCmd fires the staged backend request and returns the exchange.
func sendCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		return ExchangeMsg{Exchange: ctrl.Send(context.Background())}
	}
}

// resolvePermissionCmd applies the permission decision off-thread; granting
// triggers a geolocation lookup which may take a few seconds.
func resolvePermissionCmd(ctrl *session.Controller, granted bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return PermissionResolvedMsg{Outcome: ctrl.ResolvePermission(ctx, granted)}
	}
}

// streamTickCmd schedules the next reveal tick for the given generation.
func streamTickCmd(interval time.Duration, gen uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return StreamTickMsg{Gen: gen}
	})
}

// fetchRecommendationsCmd loads the daily picks for the welcome area.
func fetchRecommendationsCmd(client *api.Client, count int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		movies, err := client.DailyRecommendations(ctx, count)
		return RecommendationsMsg{Movies: movies, Err: err}
	}
}
