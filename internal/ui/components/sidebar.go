// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the filmpilot TUI.
package components

import (
	"strings"

	"github.com/filmpilot/filmpilot-tui/internal/model"
	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// =============================================================================
// SIDEBAR MODEL
// =============================================================================

// Sidebar renders the conversation list. It keeps its own cursor so the
// user can move through conversations without changing the active one
// until they confirm with Enter.
type Sidebar struct {
	theme  *styles.Theme
	width  int
	height int

	items  []*model.Conversation
	active string // name of the selected conversation in the store
	cursor int
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme) Sidebar {
	return Sidebar{theme: theme, width: 28}
}

// SetTheme swaps the styling used for rendering.
func (s *Sidebar) SetTheme(theme *styles.Theme) {
	s.theme = theme
}

// SetSize updates the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the configured column width.
func (s *Sidebar) Width() int {
	return s.width
}

// SetItems replaces the conversation list and clamps the cursor. The list
// is expected to be newest-first, matching the store's List order.
func (s *Sidebar) SetItems(items []*model.Conversation, active string) {
	s.items = items
	s.active = active
	if s.cursor >= len(items) {
		s.cursor = len(items) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// CursorUp moves the cursor one row up.
func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// CursorDown moves the cursor one row down.
func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.items)-1 {
		s.cursor++
	}
}

// CursorName returns the conversation name under the cursor.
func (s *Sidebar) CursorName() (string, bool) {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return "", false
	}
	return s.items[s.cursor].Name, true
}

// Len returns the number of listed conversations.
func (s *Sidebar) Len() int {
	return len(s.items)
}

// View renders the sidebar; focused controls whether the cursor row is
// highlighted.
func (s Sidebar) View(focused bool) string {
	var b strings.Builder

	inner := s.width - 2
	b.WriteString(s.theme.SidebarTitle.Render(PadWidth("对话列表", inner)))
	b.WriteString("\n")

	if len(s.items) == 0 {
		b.WriteString(s.theme.SidebarPreview.Render("暂无对话"))
		return s.theme.Sidebar.Width(s.width).Render(b.String())
	}

	// Two rows per conversation: name line and preview line.
	maxRows := len(s.items)
	if s.height > 0 {
		visible := (s.height - 1) / 2
		if visible < 1 {
			visible = 1
		}
		if maxRows > visible {
			maxRows = visible
		}
	}

	start := 0
	if s.cursor >= maxRows {
		start = s.cursor - maxRows + 1
	}

	for i := start; i < start+maxRows && i < len(s.items); i++ {
		conv := s.items[i]

		nameStyle := s.theme.SidebarItem
		if conv.Name == s.active {
			nameStyle = s.theme.SidebarItemActive
		}
		if focused && i == s.cursor {
			nameStyle = s.theme.SidebarItemFocused
		}

		marker := "  "
		if conv.Name == s.active {
			marker = "* "
		}

		b.WriteString(nameStyle.Render(PadWidth(marker+conv.Name, inner)))
		b.WriteString("\n")
		b.WriteString(s.theme.SidebarPreview.Render(PadWidth(conv.Preview(), inner)))
		b.WriteString("\n")
	}

	return s.theme.Sidebar.Width(s.width).Render(strings.TrimRight(b.String(), "\n"))
}
