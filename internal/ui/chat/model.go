// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main Bubble Tea view for the filmpilot TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/filmpilot/filmpilot-tui/internal/amap"
	"github.com/filmpilot/filmpilot-tui/internal/api"
	"github.com/filmpilot/filmpilot-tui/internal/config"
	"github.com/filmpilot/filmpilot-tui/internal/model"
	"github.com/filmpilot/filmpilot-tui/internal/session"
	"github.com/filmpilot/filmpilot-tui/internal/storage"
	"github.com/filmpilot/filmpilot-tui/internal/ui/components"
	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// Focus identifies which pane receives key input.
type Focus int

const (
	FocusInput Focus = iota
	FocusSidebar
	FocusPermission
	FocusSettings
)

// settingsPane identifies which preference panel is open.
type settingsPane int

const (
	paneAge settingsPane = iota
	paneGender
	paneGenre
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Domain
	ctrl   *session.Controller
	client *api.Client
	panel  *amap.Panel
	local  *storage.LocalStore // nil disables draft/theme persistence
	cfg    *config.Config

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// UI components
	viewport        viewport.Model
	input           textinput.Model
	renameInput     textinput.Model
	spinner         components.Spinner
	sidebar         components.Sidebar
	statusBar       components.StatusBar
	recommendations components.Recommendations
	permission      components.LocationPrompt
	agePicker       components.Picker
	genderPicker    components.Picker
	genrePicker     components.MultiPicker

	// Key bindings
	keyMap KeyMap

	// View state
	focus        Focus
	pane         settingsPane
	showHelp     bool
	renaming     bool
	renameTarget string

	// Markdown rendering for committed bot messages
	renderer *glamour.TermRenderer
}

// New creates the chat model. The controller must be non-nil; local may be
// nil when persistence is unavailable.
func New(theme *styles.Theme, ctrl *session.Controller, client *api.Client, panel *amap.Panel, local *storage.LocalStore, cfg *config.Config) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "想看什么电影？"
	ti.CharLimit = 1024
	ti.Focus()
	if local != nil {
		ti.SetValue(local.InputDraft())
	}

	ri := textinput.New()
	ri.Prompt = "重命名: "
	ri.CharLimit = 64

	vp := viewport.New(80, 20)

	settings := ctrl.Settings()
	agePicker := components.NewPicker(theme, "年龄段", model.AgeRanges)
	agePicker.SetSelected(settings.AgeRange)
	genderPicker := components.NewPicker(theme, "性别", model.Genders)
	genderPicker.SetSelected(settings.Gender)
	genrePicker := components.NewMultiPicker(theme, "电影类型", model.MovieGenres)
	genrePicker.SetSelected(settings.Genres)

	statusBar := components.NewStatusBar(theme)
	statusBar.SetThemeName(theme.Name)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		renderer = nil // fall back to plain text
	}

	m := Model{
		ctrl:            ctrl,
		client:          client,
		panel:           panel,
		local:           local,
		cfg:             cfg,
		theme:           theme,
		viewport:        vp,
		input:           ti,
		renameInput:     ri,
		spinner:         components.NewSpinner(theme),
		sidebar:         components.NewSidebar(theme),
		statusBar:       statusBar,
		renderer:        renderer,
		recommendations: components.NewRecommendations(theme),
		permission:      components.NewLocationPrompt(theme),
		agePicker:       agePicker,
		genderPicker:    genderPicker,
		genrePicker:     genrePicker,
		keyMap:          DefaultKeyMap(),
		focus:           FocusInput,
	}
	m.refreshSidebar()
	m.refreshViewport()
	return m
}

// Init starts input blinking and fetches the daily picks.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.client != nil && m.cfg != nil && m.cfg.UI.DailyPicks > 0 {
		cmds = append(cmds, fetchRecommendationsCmd(m.client, m.cfg.UI.DailyPicks))
	}
	return tea.Batch(cmds...)
}

// Controller exposes the session controller, mainly for tests.
func (m *Model) Controller() *session.Controller {
	return m.ctrl
}

// Focus returns the currently focused pane.
func (m *Model) Focus() Focus {
	return m.focus
}

// SetTheme rebuilds all component styling from a new theme.
func (m *Model) SetTheme(theme *styles.Theme) {
	theme.SetSize(m.width, m.height)
	m.theme = theme
	m.spinner.SetTheme(theme)
	m.sidebar.SetTheme(theme)
	m.statusBar.SetTheme(theme)
	m.statusBar.SetThemeName(theme.Name)
	m.recommendations.SetTheme(theme)
	m.permission.SetTheme(theme)
	m.agePicker.SetTheme(theme)
	m.genderPicker.SetTheme(theme)
	m.genrePicker.SetTheme(theme)
	m.refreshViewport()
}

// saveDraft persists the current input line so it survives a restart.
func (m *Model) saveDraft() {
	if m.local == nil {
		return
	}
	_ = m.local.SetInputDraft(m.input.Value())
}

// stateLabel maps the controller state to the status bar text.
func stateLabel(s session.State) string {
	switch s {
	case session.StateAwaitingPermission:
		return "等待授权"
	case session.StateSending:
		return "请求中"
	case session.StateStreaming:
		return "输出中"
	case session.StateRouting:
		return "规划路线"
	case session.StateError:
		return "出错"
	default:
		return "空闲"
	}
}
