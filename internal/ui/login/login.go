// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the account screen shown before the chat view.
package login

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/filmpilot/filmpilot-tui/internal/api"
	"github.com/filmpilot/filmpilot-tui/internal/auth"
	"github.com/filmpilot/filmpilot-tui/internal/storage"
	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// =============================================================================
// MODES AND FOCUS
// =============================================================================

// Mode selects between the login and register forms.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// focus positions within the form, top to bottom. focusConfirm exists
// only in register mode and is skipped while logging in.
const (
	focusUserID = iota
	focusPassword
	focusConfirm
	focusRemember
	focusSubmit
	focusCount
)

// authTimeout bounds one login or register round-trip.
const authTimeout = 15 * time.Second

// =============================================================================
// MESSAGES
// =============================================================================

// authResultMsg delivers the outcome of a login or register request.
type authResultMsg struct {
	mode    Mode
	success bool
	message string
	err     error
}

// loginCmd runs the login request off the event loop.
func loginCmd(client *api.Client, userID, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		res, err := client.Login(ctx, userID, password)
		if err != nil {
			return authResultMsg{mode: ModeLogin, err: err}
		}
		return authResultMsg{mode: ModeLogin, success: res.Success, message: res.Message}
	}
}

// registerCmd runs the register request off the event loop.
func registerCmd(client *api.Client, userID, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
		defer cancel()

		if err := client.Register(ctx, userID, password); err != nil {
			return authResultMsg{mode: ModeRegister, err: err}
		}
		return authResultMsg{mode: ModeRegister, success: true}
	}
}

// =============================================================================
// LOGIN MODEL
// =============================================================================

// Model is the Bubble Tea model for the account screen. Run it as its own
// program; when it quits, Authenticated reports whether the user logged in.
type Model struct {
	client *api.Client
	vault  *auth.Vault         // nil disables remember-me
	local  *storage.LocalStore // nil disables persistence
	theme  *styles.Theme

	mode     Mode
	userID   textinput.Model
	password textinput.Model
	confirm  textinput.Model
	focus    int
	remember bool

	errMsg  string
	infoMsg string
	busy    bool

	width  int
	height int

	authenticated bool
	canceled      bool
}

// New creates the account screen. Remembered credentials, when present and
// unsealable, prefill the form.
func New(theme *styles.Theme, client *api.Client, vault *auth.Vault, local *storage.LocalStore) Model {
	user := textinput.New()
	user.Prompt = ""
	user.Placeholder = "用户名"
	user.CharLimit = 64
	user.Focus()

	pass := textinput.New()
	pass.Prompt = ""
	pass.Placeholder = "密码"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '*'

	confirm := textinput.New()
	confirm.Prompt = ""
	confirm.Placeholder = "确认密码"
	confirm.CharLimit = 128
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '*'

	m := Model{
		client:   client,
		vault:    vault,
		local:    local,
		theme:    theme,
		userID:   user,
		password: pass,
		confirm:  confirm,
	}
	m.prefill()
	return m
}

// prefill restores remembered credentials from the sealed blob.
func (m *Model) prefill() {
	if m.vault == nil || m.local == nil {
		return
	}
	blob := m.local.Credentials()
	if len(blob) == 0 {
		return
	}
	creds, err := m.vault.Open(blob)
	if err != nil {
		// A stale or foreign blob is unusable; drop it.
		_ = m.local.ClearCredentials()
		return
	}
	m.userID.SetValue(creds.UserID)
	m.password.SetValue(creds.Password)
	m.remember = true
}

// Init starts cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Authenticated reports whether the screen ended with a successful login.
func (m Model) Authenticated() bool {
	return m.authenticated
}

// UserID returns the logged-in user id.
func (m Model) UserID() string {
	return strings.TrimSpace(m.userID.Value())
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the account screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authResultMsg:
		return m.handleResult(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "ctrl+q", "esc":
		m.canceled = true
		return m, tea.Quit

	case "tab", "down":
		return m.moveFocus(1), nil

	case "shift+tab", "up":
		return m.moveFocus(-1), nil

	case "ctrl+r":
		m.toggleMode()
		return m, nil

	case " ":
		if m.focus == focusRemember {
			m.remember = !m.remember
			return m, nil
		}

	case "enter":
		switch m.focus {
		case focusRemember:
			m.remember = !m.remember
			return m, nil
		case focusSubmit:
			return m.submit()
		default:
			return m.moveFocus(1), nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusUserID:
		m.userID, cmd = m.userID.Update(msg)
	case focusPassword:
		m.password, cmd = m.password.Update(msg)
	case focusConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
	}
	return m, cmd
}

// moveFocus shifts form focus and syncs the input cursors.
func (m Model) moveFocus(delta int) Model {
	m.focus = (m.focus + delta + focusCount) % focusCount
	if m.mode == ModeLogin && m.focus == focusConfirm {
		m.focus = (m.focus + delta + focusCount) % focusCount
	}

	m.userID.Blur()
	m.password.Blur()
	m.confirm.Blur()
	switch m.focus {
	case focusUserID:
		m.userID.Focus()
	case focusPassword:
		m.password.Focus()
	case focusConfirm:
		m.confirm.Focus()
	}
	return m
}

// toggleMode switches between the login and register forms.
func (m *Model) toggleMode() {
	if m.mode == ModeLogin {
		m.mode = ModeRegister
	} else {
		m.mode = ModeLogin
		m.confirm.SetValue("")
		m.confirm.Blur()
		if m.focus == focusConfirm {
			m.focus = focusPassword
			m.password.Focus()
		}
	}
	m.errMsg = ""
	m.infoMsg = ""
}

// submit validates the form and fires the request.
func (m Model) submit() (tea.Model, tea.Cmd) {
	user := strings.TrimSpace(m.userID.Value())
	pass := m.password.Value()

	if user == "" || pass == "" {
		m.errMsg = "请输入用户名和密码"
		return m, nil
	}
	if m.mode == ModeRegister && m.confirm.Value() != pass {
		m.errMsg = "两次输入的密码不一致"
		return m, nil
	}

	m.errMsg = ""
	m.infoMsg = ""
	m.busy = true
	if m.mode == ModeRegister {
		return m, registerCmd(m.client, user, pass)
	}
	return m, loginCmd(m.client, user, pass)
}

// handleResult folds a finished auth request back into the form.
func (m Model) handleResult(msg authResultMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if msg.err != nil {
		m.errMsg = "网络错误，请稍后再试"
		return m, nil
	}

	if msg.mode == ModeRegister {
		if !msg.success {
			m.errMsg = orDefault(msg.message, "注册失败")
			return m, nil
		}
		m.mode = ModeLogin
		m.confirm.SetValue("")
		m.infoMsg = "注册成功，请登录"
		return m, nil
	}

	if !msg.success {
		m.errMsg = orDefault(msg.message, "用户名或密码错误")
		return m, nil
	}

	m.authenticated = true
	m.persist()
	return m, tea.Quit
}

// persist saves the user id and, when asked, the sealed credentials.
func (m *Model) persist() {
	if m.local == nil {
		return
	}
	_ = m.local.SetUserID(m.UserID())

	if m.vault == nil {
		return
	}
	if !m.remember {
		_ = m.local.ClearCredentials()
		return
	}
	blob, err := m.vault.Seal(auth.Credentials{
		UserID:   m.UserID(),
		Password: m.password.Value(),
	})
	if err == nil {
		_ = m.local.SetCredentials(blob)
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the account form centered on screen.
func (m Model) View() string {
	title := "登录 FilmPilot"
	action := "登录"
	switchHint := "Ctrl+R 切换到注册"
	if m.mode == ModeRegister {
		title = "注册 FilmPilot"
		action = "注册"
		switchHint = "Ctrl+R 切换到登录"
	}

	var b strings.Builder
	b.WriteString(m.theme.LoginTitle.Render(title))
	b.WriteString("\n\n")

	b.WriteString(m.theme.LoginLabel.Render("用户名"))
	b.WriteString("\n")
	b.WriteString(m.userID.View())
	b.WriteString("\n\n")

	b.WriteString(m.theme.LoginLabel.Render("密码"))
	b.WriteString("\n")
	b.WriteString(m.password.View())
	b.WriteString("\n\n")

	if m.mode == ModeRegister {
		b.WriteString(m.theme.LoginLabel.Render("确认密码"))
		b.WriteString("\n")
		b.WriteString(m.confirm.View())
		b.WriteString("\n\n")
	}

	mark := "[ ]"
	if m.remember {
		mark = "[x]"
	}
	rememberLine := mark + " 记住我"
	if m.focus == focusRemember {
		rememberLine = m.theme.SettingsOptionFocused.Render(rememberLine)
	} else {
		rememberLine = m.theme.LoginLabel.Render(rememberLine)
	}
	b.WriteString(rememberLine)
	b.WriteString("\n\n")

	button := m.theme.PermissionButton.Render(action)
	if m.focus == focusSubmit {
		button = m.theme.PermissionButtonActive.Render(action)
	}
	if m.busy {
		button = m.theme.PermissionButton.Render("请稍候...")
	}
	b.WriteString(button)
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.LoginError.Render(m.errMsg))
		b.WriteString("\n")
	}
	if m.infoMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.LoginHint.Render(m.infoMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.LoginHint.Render(switchHint + " · Esc 退出"))

	box := m.theme.LoginBox.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
