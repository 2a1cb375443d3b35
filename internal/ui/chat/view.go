// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main Bubble Tea view for the filmpilot TUI.
package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/filmpilot/filmpilot-tui/internal/model"
	"github.com/filmpilot/filmpilot-tui/internal/session"
	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// View renders the full screen.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "正在加载..."
	}

	header := m.renderHeader()
	content := m.renderContent()
	input := m.renderInput()
	status := m.renderStatusBar()

	screen := lipgloss.JoinVertical(lipgloss.Left, header, content, input, status)

	switch {
	case m.focus == FocusPermission:
		return m.overlay(screen, m.permission.View())
	case m.focus == FocusSettings:
		return m.overlay(screen, m.renderSettings())
	case m.showHelp:
		return m.overlay(screen, m.renderHelp())
	case m.renaming:
		return m.overlay(screen, m.renderRename())
	}
	return screen
}

// renderHeader draws the one line title bar.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("FilmPilot")
	subtitle := m.theme.HeaderSubtitle.Render("电影推荐助手")
	return m.theme.Header.Width(m.width).Render(title + " " + subtitle)
}

// renderContent draws the sidebar and chat columns.
func (m Model) renderContent() string {
	chat := m.viewport.View()
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		if m.focus == FocusSidebar {
			return m.sidebar.View(true)
		}
		return chat
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.sidebar.View(m.focus == FocusSidebar),
		chat,
	)
}

// renderInput draws the input row, or the thinking spinner while a
// request is in flight.
func (m Model) renderInput() string {
	var inner string
	if m.spinner.IsActive() {
		inner = m.spinner.View()
	} else {
		inner = m.input.View()
	}
	return m.theme.InputContainer.Width(m.width - 2).Render(inner)
}

// renderStatusBar draws the bottom status line.
func (m Model) renderStatusBar() string {
	m.statusBar.SetState(stateLabel(m.ctrl.State()))
	m.statusBar.SetThemeName(m.theme.Name)
	return m.statusBar.View()
}

// renderConversation renders the active conversation transcript, including
// the daily picks banner when the conversation is still empty.
func (m Model) renderConversation() string {
	conv := m.ctrl.Store().Active()
	if conv == nil {
		return ""
	}

	var b strings.Builder

	if len(conv.Messages) == 0 {
		if m.recommendations.HasMovies() {
			b.WriteString(m.recommendations.View())
			b.WriteString("\n")
		}
		b.WriteString(m.theme.ThinkingText.Render("输入内容开始对话"))
		return b.String()
	}

	bubbleWidth := m.viewport.Width - 8
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	lastRoute := -1
	for i, msg := range conv.Messages {
		if msg.IsRoute() {
			lastRoute = i
		}
	}

	for i, msg := range conv.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg, bubbleWidth, i == lastRoute))
		b.WriteString("\n")
	}

	// Partial reply currently being typed out.
	if m.ctrl.State() == session.StateStreaming {
		if visible := m.ctrl.Stream().Visible(); visible != "" {
			b.WriteString("\n")
			b.WriteString(m.renderBotText(visible, bubbleWidth))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderMessage renders a single transcript entry.
func (m Model) renderMessage(msg model.Message, bubbleWidth int, live bool) string {
	if msg.Role == model.RoleUser {
		bubble := m.theme.UserBubble.MaxWidth(bubbleWidth).Render(msg.Content)
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, bubble)
	}
	if msg.IsRoute() {
		return m.renderRoute(msg, live)
	}
	return m.renderBotText(msg.Content, bubbleWidth)
}

// renderBotText renders assistant prose, through glamour when available.
func (m Model) renderBotText(text string, bubbleWidth int) string {
	body := text
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			body = strings.TrimRight(out, "\n")
		}
	}
	return m.theme.BotBubble.MaxWidth(bubbleWidth).Render(body)
}

// renderRoute renders a route transcript entry. The latest route shows the
// live panel state; older ones only note that a route was planned.
func (m Model) renderRoute(msg model.Message, live bool) string {
	if live && m.panel != nil {
		if view := m.panel.View(); view != "" {
			if m.panel.Err() != nil {
				view = m.theme.RouteError.Render(view)
			}
			return m.theme.RouteBox.Render(view)
		}
	}
	title := m.theme.RouteTitle.Render("路线规划")
	return m.theme.RouteBox.Render(title + "\n" + msg.Content)
}

// renderSettings draws the three preference panels side by side. Each
// picker renders its own box; an arrow above marks the focused panel.
func (m Model) renderSettings() string {
	panes := []struct {
		active bool
		body   string
	}{
		{m.pane == paneAge, m.agePicker.View()},
		{m.pane == paneGender, m.genderPicker.View()},
		{m.pane == paneGenre, m.genrePicker.View()},
	}

	cols := make([]string, 0, len(panes))
	for _, p := range panes {
		marker := " "
		if p.active {
			marker = m.theme.SettingsOptionSelected.Render("▾")
		}
		cols = append(cols, marker+"\n"+p.body)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	hint := m.theme.ThinkingText.Render("Tab 切换面板 · Esc 关闭")
	return lipgloss.JoinVertical(lipgloss.Left, body, hint)
}

// renderHelp draws the keybinding reference overlay.
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.SettingsTitle.Render("快捷键"))
	b.WriteString("\n\n")
	for _, row := range m.keyMap.FullHelp() {
		for _, binding := range row {
			b.WriteString(fmt.Sprintf("%s  %s\n",
				m.theme.ShortcutKey.Render(binding.Help().Key),
				m.theme.ShortcutDesc.Render(binding.Help().Desc),
			))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.theme.ThinkingText.Render("按任意键关闭"))
	return m.theme.SettingsBox.Render(b.String())
}

// renderRename draws the rename prompt overlay.
func (m Model) renderRename() string {
	return m.theme.SettingsBox.Render(
		m.theme.SettingsTitle.Render("重命名对话") + "\n\n" +
			m.renameInput.View() + "\n\n" +
			m.theme.ThinkingText.Render("Enter 确认 · Esc 取消"),
	)
}

// overlay centers a box over the base screen.
func (m Model) overlay(base, box string) string {
	_ = base
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
