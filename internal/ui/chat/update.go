// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main Bubble Tea view for the filmpilot TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/filmpilot/filmpilot-tui/internal/model"
	"github.com/filmpilot/filmpilot-tui/internal/session"
	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// sidebarWidth is the fixed sidebar column width in medium/wide layouts.
const sidebarWidth = 30

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ExchangeMsg:
		return m.handleExchange(msg)

	case PermissionResolvedMsg:
		if msg.Outcome == session.SubmitReady {
			m.input.Reset()
			m.saveDraft()
			m.refreshSidebar()
			m.refreshViewport()
			return m, tea.Batch(m.spinner.Start(), sendCmd(m.ctrl))
		}
		return m, nil

	case StreamTickMsg:
		return m.handleStreamTick(msg)

	case RouteUpdatedMsg:
		m.refreshViewport()
		return m, nil

	case RecommendationsMsg:
		// Fetch failures leave the bar empty; picks are not a blocker.
		if msg.Err == nil {
			m.recommendations.SetMovies(msg.Movies)
			m.refreshViewport()
		}
		return m, nil

	case ConfigReloadedMsg:
		if msg.Config != nil {
			m.cfg = msg.Config
			m.SetTheme(styles.New(msg.Config.UI.Theme))
		}
		return m, nil
	}

	return m, nil
}

// handleResize recomputes all pane dimensions.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	// One line header, three input lines, one status line.
	contentHeight := msg.Height - 5
	if contentHeight < 3 {
		contentHeight = 3
	}

	chatWidth := msg.Width
	if m.theme.GetLayoutMode() != styles.LayoutNarrow {
		chatWidth = msg.Width - sidebarWidth
	}

	m.sidebar.SetSize(sidebarWidth, contentHeight)
	m.viewport.Width = chatWidth
	m.viewport.Height = contentHeight
	m.statusBar.SetWidth(msg.Width)
	m.recommendations.SetWidth(chatWidth)
	m.input.Width = msg.Width - 6

	m.refreshViewport()
	return m
}

// handleKey routes key input by overlay and focus.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keyMap.Quit) {
		// Ctrl+C cancels an active stream before it quits.
		if msg.String() == "ctrl+c" && m.ctrl.Stream().Streaming() {
			m.ctrl.CancelStream()
			m.refreshViewport()
			return m, nil
		}
		m.saveDraft()
		return m, tea.Quit
	}

	switch m.focus {
	case FocusPermission:
		return m.handlePermissionKey(msg)
	case FocusSettings:
		return m.handleSettingsKey(msg)
	case FocusSidebar:
		return m.handleSidebarKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

// handlePermissionKey drives the location prompt.
func (m Model) handlePermissionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "tab":
		m.permission.ToggleFocus()
		return m, nil
	case "enter":
		granted := m.permission.AllowFocused()
		m.permission.Hide()
		m.focus = FocusInput
		return m, resolvePermissionCmd(m.ctrl, granted)
	case "esc":
		// Dismissing counts as denial; the prompt is asked at most once.
		m.permission.Hide()
		m.focus = FocusInput
		return m, resolvePermissionCmd(m.ctrl, false)
	}
	return m, nil
}

// handleSettingsKey drives the preference panels.
func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = FocusInput
		return m, nil
	case "tab", "right":
		m.pane = (m.pane + 1) % 3
		return m, nil
	case "shift+tab", "left":
		m.pane = (m.pane + 2) % 3
		return m, nil
	case "up":
		switch m.pane {
		case paneAge:
			m.agePicker.CursorUp()
		case paneGender:
			m.genderPicker.CursorUp()
		case paneGenre:
			m.genrePicker.CursorUp()
		}
		return m, nil
	case "down":
		switch m.pane {
		case paneAge:
			m.agePicker.CursorDown()
		case paneGender:
			m.genderPicker.CursorDown()
		case paneGenre:
			m.genrePicker.CursorDown()
		}
		return m, nil
	case "enter", " ":
		switch m.pane {
		case paneAge:
			m.agePicker.Toggle()
		case paneGender:
			m.genderPicker.Toggle()
		case paneGenre:
			m.genrePicker.Toggle()
		}
		m.commitSettings()
		return m, nil
	}
	return m, nil
}

// commitSettings pushes the picker state into the controller, which
// persists it.
func (m *Model) commitSettings() {
	m.ctrl.SetSettings(model.Settings{
		AgeRange: m.agePicker.Selected(),
		Gender:   m.genderPicker.Selected(),
		Genres:   m.genrePicker.Selected(),
	})
}

// handleSidebarKey drives the conversation list.
func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.renaming {
		switch msg.String() {
		case "enter":
			newName := m.renameInput.Value()
			if newName != "" && newName != m.renameTarget {
				m.ctrl.RenameConversation(m.renameTarget, newName)
			}
			m.renaming = false
			m.refreshSidebar()
			return m, nil
		case "esc":
			m.renaming = false
			return m, nil
		}
		var cmd tea.Cmd
		m.renameInput, cmd = m.renameInput.Update(msg)
		return m, cmd
	}

	switch {
	case msg.String() == "up" || msg.String() == "k":
		m.sidebar.CursorUp()
		return m, nil
	case msg.String() == "down" || msg.String() == "j":
		m.sidebar.CursorDown()
		return m, nil
	case msg.String() == "enter":
		if name, ok := m.sidebar.CursorName(); ok {
			m.ctrl.SelectConversation(name)
			m.refreshSidebar()
			m.refreshViewport()
		}
		m.focus = FocusInput
		return m, nil
	case key.Matches(msg, m.keyMap.Rename):
		if name, ok := m.sidebar.CursorName(); ok {
			m.renaming = true
			m.renameTarget = name
			m.renameInput.SetValue(name)
			m.renameInput.Focus()
		}
		return m, nil
	case key.Matches(msg, m.keyMap.Delete):
		if name, ok := m.sidebar.CursorName(); ok {
			m.ctrl.DeleteConversation(name)
			m.refreshSidebar()
			m.refreshViewport()
		}
		return m, nil
	case msg.String() == "n" || key.Matches(msg, m.keyMap.NewConv):
		return m.newConversation()
	case key.Matches(msg, m.keyMap.ToggleSide) || msg.String() == "esc":
		m.focus = FocusInput
		return m, nil
	}
	return m, nil
}

// handleInputKey drives the message input and viewport scrolling.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.ToggleSide):
		m.saveDraft()
		m.focus = FocusSidebar
		return m, nil
	case key.Matches(msg, m.keyMap.NewConv):
		return m.newConversation()
	case key.Matches(msg, m.keyMap.Settings):
		m.focus = FocusSettings
		m.pane = paneAge
		return m, nil
	case key.Matches(msg, m.keyMap.Theme):
		return m.cycleTheme()
	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keyMap.Submit):
		return m.submit()
	case key.Matches(msg, m.keyMap.Cancel):
		if m.ctrl.Stream().Streaming() {
			m.ctrl.CancelStream()
			m.refreshViewport()
		}
		return m, nil
	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		return m, nil
	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// newConversation creates and selects a fresh conversation.
func (m Model) newConversation() (tea.Model, tea.Cmd) {
	m.ctrl.NewConversation()
	m.focus = FocusInput
	m.refreshSidebar()
	m.refreshViewport()
	return m, nil
}

// cycleTheme switches to the next theme and persists the choice.
func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	next := styles.NextTheme(m.theme.Name)
	m.SetTheme(styles.New(next))
	if m.local != nil {
		_ = m.local.SetTheme(next)
	}
	return m, nil
}

// submit runs the controller's turn state machine on the input line.
func (m Model) submit() (tea.Model, tea.Cmd) {
	switch m.ctrl.Submit(m.input.Value()) {
	case session.SubmitNeedPermission:
		m.permission.Show()
		m.focus = FocusPermission
		return m, nil
	case session.SubmitReady:
		m.input.Reset()
		m.saveDraft()
		m.refreshSidebar()
		m.refreshViewport()
		return m, tea.Batch(m.spinner.Start(), sendCmd(m.ctrl))
	}
	return m, nil
}

// handleExchange applies a finished backend exchange.
func (m Model) handleExchange(msg ExchangeMsg) (tea.Model, tea.Cmd) {
	m.spinner.Stop()

	result, route := m.ctrl.Apply(msg.Exchange)
	m.refreshSidebar()
	m.refreshViewport()

	switch result {
	case session.AppliedStream:
		gen := m.ctrl.Stream().Generation()
		return m, streamTickCmd(m.ctrl.Stream().Interval(), gen)
	case session.AppliedRoute:
		if m.panel != nil && route != nil {
			m.panel.SetRoute(*route)
		}
		m.ctrl.FinishRouting()
		m.refreshViewport()
	}
	return m, nil
}

// handleStreamTick advances the typewriter reveal.
func (m Model) handleStreamTick(msg StreamTickMsg) (tea.Model, tea.Cmd) {
	_, done, ok := m.ctrl.Stream().Tick(msg.Gen)
	if !ok {
		// A newer generation superseded this tick chain.
		return m, nil
	}
	if done {
		m.ctrl.FinishStream(msg.Gen)
		m.refreshSidebar()
		m.refreshViewport()
		return m, nil
	}
	m.refreshViewport()
	return m, streamTickCmd(m.ctrl.Stream().Interval(), msg.Gen)
}

// refreshSidebar syncs the sidebar with the store.
func (m *Model) refreshSidebar() {
	m.sidebar.SetItems(m.ctrl.Store().List(), m.ctrl.Store().ActiveName())
}

// refreshViewport re-renders the active conversation and follows the tail.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}
