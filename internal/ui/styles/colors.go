// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the filmpilot TUI.
// Colors are grouped into named palettes, one per selectable theme.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// THEME NAMES
// =============================================================================

const (
	// ThemeDay is the default light theme.
	ThemeDay = "day"
	// ThemeNight is the dark theme.
	ThemeNight = "night"
	// ThemeEye is the low-strain green-tinted theme.
	ThemeEye = "eye"
)

// =============================================================================
// PALETTE
// =============================================================================

// Palette holds the full color set for one theme. Every style in Theme is
// derived from these values, so switching palettes restyles the whole app.
type Palette struct {
	// Accents
	Accent    lipgloss.Color // brand color, titles, selections
	AccentDim lipgloss.Color // darker accent for borders

	// Semantic
	Success lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color

	// Surfaces
	Surface    lipgloss.Color // main background
	SurfaceDim lipgloss.Color // header/footer background
	Overlay    lipgloss.Color // borders, separators

	// Text
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextInverse   lipgloss.Color // text on accent backgrounds

	// Message bubbles
	UserBubbleBg     lipgloss.Color
	UserBubbleFg     lipgloss.Color
	UserBubbleBorder lipgloss.Color
	BotBubbleBg      lipgloss.Color
	BotBubbleFg      lipgloss.Color
	BotBubbleBorder  lipgloss.Color
}

// palettes maps theme name to its color set.
var palettes = map[string]Palette{
	ThemeDay: {
		Accent:    lipgloss.Color("#2563EB"),
		AccentDim: lipgloss.Color("#93C5FD"),

		Success: lipgloss.Color("#059669"),
		Warning: lipgloss.Color("#D97706"),
		Danger:  lipgloss.Color("#E11D48"),

		Surface:    lipgloss.Color("#FFFFFF"),
		SurfaceDim: lipgloss.Color("#F3F4F6"),
		Overlay:    lipgloss.Color("#D1D5DB"),

		TextPrimary:   lipgloss.Color("#1F2937"),
		TextSecondary: lipgloss.Color("#6B7280"),
		TextMuted:     lipgloss.Color("#9CA3AF"),
		TextInverse:   lipgloss.Color("#FFFFFF"),

		UserBubbleBg:     lipgloss.Color("#DBEAFE"),
		UserBubbleFg:     lipgloss.Color("#1E40AF"),
		UserBubbleBorder: lipgloss.Color("#3B82F6"),
		BotBubbleBg:      lipgloss.Color("#F9FAFB"),
		BotBubbleFg:      lipgloss.Color("#374151"),
		BotBubbleBorder:  lipgloss.Color("#D1D5DB"),
	},
	ThemeNight: {
		Accent:    lipgloss.Color("#60A5FA"),
		AccentDim: lipgloss.Color("#1E3A5F"),

		Success: lipgloss.Color("#34D399"),
		Warning: lipgloss.Color("#FBBF24"),
		Danger:  lipgloss.Color("#FB7185"),

		Surface:    lipgloss.Color("#111827"),
		SurfaceDim: lipgloss.Color("#0B1220"),
		Overlay:    lipgloss.Color("#374151"),

		TextPrimary:   lipgloss.Color("#E5E7EB"),
		TextSecondary: lipgloss.Color("#9CA3AF"),
		TextMuted:     lipgloss.Color("#6B7280"),
		TextInverse:   lipgloss.Color("#111827"),

		UserBubbleBg:     lipgloss.Color("#1E3A8A"),
		UserBubbleFg:     lipgloss.Color("#DBEAFE"),
		UserBubbleBorder: lipgloss.Color("#3B82F6"),
		BotBubbleBg:      lipgloss.Color("#1F2937"),
		BotBubbleFg:      lipgloss.Color("#E5E7EB"),
		BotBubbleBorder:  lipgloss.Color("#4B5563"),
	},
	ThemeEye: {
		Accent:    lipgloss.Color("#047857"),
		AccentDim: lipgloss.Color("#A7F3D0"),

		Success: lipgloss.Color("#059669"),
		Warning: lipgloss.Color("#B45309"),
		Danger:  lipgloss.Color("#BE123C"),

		Surface:    lipgloss.Color("#ECF4EC"),
		SurfaceDim: lipgloss.Color("#DFEDDF"),
		Overlay:    lipgloss.Color("#A8C8A8"),

		TextPrimary:   lipgloss.Color("#1C3829"),
		TextSecondary: lipgloss.Color("#4D6B58"),
		TextMuted:     lipgloss.Color("#7E9C88"),
		TextInverse:   lipgloss.Color("#ECF4EC"),

		UserBubbleBg:     lipgloss.Color("#C6E6CF"),
		UserBubbleFg:     lipgloss.Color("#14532D"),
		UserBubbleBorder: lipgloss.Color("#16A34A"),
		BotBubbleBg:      lipgloss.Color("#E2F0E4"),
		BotBubbleFg:      lipgloss.Color("#1C3829"),
		BotBubbleBorder:  lipgloss.Color("#A8C8A8"),
	},
}

// PaletteFor returns the palette for a theme name. Unknown names fall back
// to the day palette so a stale persisted theme never breaks startup.
func PaletteFor(name string) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[ThemeDay]
}

// ThemeNames returns the selectable theme names in cycle order.
func ThemeNames() []string {
	return []string{ThemeDay, ThemeNight, ThemeEye}
}

// NextTheme returns the theme that follows name in cycle order.
func NextTheme(name string) string {
	names := ThemeNames()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return ThemeDay
}
