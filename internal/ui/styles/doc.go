// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the filmpilot TUI.

This package defines three user-selectable palettes and the Theme struct
that turns one palette into the full set of Lip Gloss styles used across
the application.

# Palettes (colors.go)

Each theme name maps to one Palette:

	day   - light theme (default)
	night - dark theme
	eye   - low-strain green-tinted theme

A Palette groups accents, semantic colors (Success/Warning/Danger),
surfaces, text levels, and message bubble colors. PaletteFor falls back to
the day palette for unknown names so a stale persisted theme never breaks
startup.

# Theme (theme.go)

The Theme struct holds every styled component:

	theme := styles.New("night")
	theme.SetSize(width, height)
	switch theme.GetLayoutMode() {
	case styles.LayoutNarrow:
		// hide the sidebar
	}

Switching themes at runtime means constructing a new Theme from the next
palette; styles are plain values and need no teardown.
*/
package styles
