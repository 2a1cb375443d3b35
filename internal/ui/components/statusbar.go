// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the filmpilot TUI.
package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Shortcut is one key/description pair shown on the right of the bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom line: session state on the left, theme name
// and shortcuts on the right.
type StatusBar struct {
	theme *styles.Theme
	width int

	state     string
	themeName string
	shortcuts []Shortcut
}

// NewStatusBar creates a status bar with the default shortcut set.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{
		theme: theme,
		shortcuts: []Shortcut{
			{"Tab", "侧栏"},
			{"C-n", "新对话"},
			{"C-s", "设置"},
			{"C-t", "主题"},
			{"C-q", "退出"},
		},
	}
}

// SetTheme swaps the styling used for rendering.
func (b *StatusBar) SetTheme(theme *styles.Theme) {
	b.theme = theme
}

// SetWidth updates the bar width.
func (b *StatusBar) SetWidth(width int) {
	b.width = width
}

// SetState updates the left-hand state label.
func (b *StatusBar) SetState(state string) {
	b.state = state
}

// SetThemeName updates the displayed theme name.
func (b *StatusBar) SetThemeName(name string) {
	b.themeName = name
}

// View renders the bar padded to its width.
func (b StatusBar) View() string {
	left := b.theme.StatusState.Render(b.state)

	var right strings.Builder
	if b.themeName != "" {
		right.WriteString(b.theme.ShortcutDesc.Render("[" + b.themeName + "] "))
	}
	for i, sc := range b.shortcuts {
		if i > 0 {
			right.WriteString(" ")
		}
		right.WriteString(b.theme.ShortcutKey.Render(sc.Key))
		right.WriteString(b.theme.ShortcutDesc.Render(":" + sc.Desc))
	}

	leftW := runewidth.StringWidth(b.state)
	rightW := ansiWidth(right.String())
	gap := b.width - leftW - rightW - 2
	if gap < 1 {
		gap = 1
	}

	return b.theme.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right.String())
}

// ansiWidth measures display width ignoring ANSI escape sequences.
func ansiWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		if inEscape {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return width
}
