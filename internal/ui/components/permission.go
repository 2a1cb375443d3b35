// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the filmpilot TUI.
package components

import (
	"strings"

	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// =============================================================================
// LOCATION PERMISSION PROMPT
// =============================================================================

// LocationPrompt asks the user once whether the app may use their location
// for route planning. Denying is a valid answer; the session then uses the
// fallback coordinates and never asks again.
type LocationPrompt struct {
	theme *styles.Theme

	visible bool
	allow   bool // true when the "allow" button is focused
}

// NewLocationPrompt creates a hidden prompt.
func NewLocationPrompt(theme *styles.Theme) LocationPrompt {
	return LocationPrompt{theme: theme, allow: true}
}

// SetTheme swaps the styling used for rendering.
func (p *LocationPrompt) SetTheme(theme *styles.Theme) {
	p.theme = theme
}

// Show makes the prompt visible with "allow" focused.
func (p *LocationPrompt) Show() {
	p.visible = true
	p.allow = true
}

// Hide dismisses the prompt.
func (p *LocationPrompt) Hide() {
	p.visible = false
}

// IsVisible reports whether the prompt is showing.
func (p *LocationPrompt) IsVisible() bool {
	return p.visible
}

// ToggleFocus moves focus between the allow and deny buttons.
func (p *LocationPrompt) ToggleFocus() {
	p.allow = !p.allow
}

// AllowFocused reports whether the "allow" button is focused.
func (p *LocationPrompt) AllowFocused() bool {
	return p.allow
}

// View renders the prompt box.
func (p LocationPrompt) View() string {
	var b strings.Builder
	b.WriteString(p.theme.PermissionTitle.Render("位置权限"))
	b.WriteString("\n\n")
	b.WriteString("是否允许使用您的位置用于路线规划？\n")
	b.WriteString("拒绝后将使用默认位置。\n\n")

	allowStyle := p.theme.PermissionButton
	denyStyle := p.theme.PermissionButtonActive
	if p.allow {
		allowStyle = p.theme.PermissionButtonActive
		denyStyle = p.theme.PermissionButton
	}
	b.WriteString(allowStyle.Render("允许"))
	b.WriteString(denyStyle.Render("拒绝"))

	return p.theme.PermissionBox.Render(b.String())
}
