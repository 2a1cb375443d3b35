// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the filmpilot TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application, built from one
// Palette. It also records the terminal's color capability.
type Theme struct {
	Name string

	// Terminal capabilities
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar            lipgloss.Style
	SidebarTitle       lipgloss.Style
	SidebarItem        lipgloss.Style
	SidebarItemActive  lipgloss.Style
	SidebarItemFocused lipgloss.Style
	SidebarPreview     lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble lipgloss.Style
	BotBubble  lipgloss.Style
	Timestamp  lipgloss.Style

	// ==========================================================================
	// ROUTE PANEL STYLES
	// ==========================================================================

	RouteBox   lipgloss.Style
	RouteTitle lipgloss.Style
	RouteError lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusState  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// ==========================================================================
	// ERROR STYLES
	// ==========================================================================

	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style

	// ==========================================================================
	// PERMISSION PROMPT STYLES
	// ==========================================================================

	PermissionBox          lipgloss.Style
	PermissionTitle        lipgloss.Style
	PermissionButton       lipgloss.Style
	PermissionButtonActive lipgloss.Style

	// ==========================================================================
	// SETTINGS PANEL STYLES
	// ==========================================================================

	SettingsBox            lipgloss.Style
	SettingsTitle          lipgloss.Style
	SettingsOption         lipgloss.Style
	SettingsOptionFocused  lipgloss.Style
	SettingsOptionSelected lipgloss.Style

	// ==========================================================================
	// RECOMMENDATION CARD STYLES
	// ==========================================================================

	MovieCard  lipgloss.Style
	MovieTitle lipgloss.Style
	MovieMeta  lipgloss.Style

	// ==========================================================================
	// LOGIN FORM STYLES
	// ==========================================================================

	LoginBox   lipgloss.Style
	LoginTitle lipgloss.Style
	LoginLabel lipgloss.Style
	LoginError lipgloss.Style
	LoginHint  lipgloss.Style
}

// New creates a theme from a named palette. Unknown names fall back to day.
func New(name string) *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		Name:         name,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles(PaletteFor(name))
	return t
}

// initStyles initializes all the lip gloss styles from one palette.
func (t *Theme) initStyles(p Palette) {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Background(p.SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(p.TextSecondary).
		Italic(true)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(p.Overlay).
		PaddingRight(1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextSecondary)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(p.TextPrimary).
		Padding(0, 1)

	t.SidebarItemActive = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true).
		Padding(0, 1)

	t.SidebarItemFocused = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.TextInverse).
		Bold(true).
		Padding(0, 1)

	t.SidebarPreview = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Padding(0, 1)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.UserBubbleFg).
		Background(p.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.BotBubble = lipgloss.NewStyle().
		Foreground(p.BotBubbleFg).
		Background(p.BotBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.BotBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Route panel
	t.RouteBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Success).
		Padding(0, 2).
		MarginRight(4)

	t.RouteTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Success)

	t.RouteError = lipgloss.NewStyle().
		Foreground(p.Danger)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(p.SurfaceDim).
		Foreground(p.TextSecondary).
		Padding(0, 1)

	t.StatusState = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(p.Accent)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(p.TextSecondary)

	// Errors
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(p.Danger).
		Padding(1, 2)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(p.Danger).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(p.TextPrimary)

	// Permission prompt
	t.PermissionBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Warning).
		Padding(1, 2)

	t.PermissionTitle = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)

	t.PermissionButton = lipgloss.NewStyle().
		Foreground(p.TextPrimary).
		Background(p.SurfaceDim).
		Padding(0, 2).
		MarginRight(1)

	t.PermissionButtonActive = lipgloss.NewStyle().
		Foreground(p.TextInverse).
		Background(p.Accent).
		Bold(true).
		Padding(0, 2).
		MarginRight(1)

	// Settings panels
	t.SettingsBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(1, 2)

	t.SettingsTitle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.SettingsOption = lipgloss.NewStyle().
		Foreground(p.TextPrimary).
		Padding(0, 1)

	t.SettingsOptionFocused = lipgloss.NewStyle().
		Background(p.Accent).
		Foreground(p.TextInverse).
		Bold(true).
		Padding(0, 1)

	t.SettingsOptionSelected = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true).
		Padding(0, 1)

	// Recommendation cards
	t.MovieCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Overlay).
		Padding(0, 1).
		MarginRight(1)

	t.MovieTitle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.MovieMeta = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Login form
	t.LoginBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(1, 3)

	t.LoginTitle = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.LoginLabel = lipgloss.NewStyle().
		Foreground(p.TextSecondary)

	t.LoginError = lipgloss.NewStyle().
		Foreground(p.Danger)

	t.LoginHint = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 70 {
		return LayoutNarrow
	}
	if t.Width < 110 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 70 columns, sidebar hidden
	LayoutMedium                   // 70-110 columns
	LayoutWide                     // > 110 columns
)
