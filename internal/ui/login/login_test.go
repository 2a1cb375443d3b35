// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the account screen shown before the chat view.
package login

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmpilot/filmpilot-tui/internal/api"
	"github.com/filmpilot/filmpilot-tui/internal/auth"
	"github.com/filmpilot/filmpilot-tui/internal/storage"
	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// authServer fakes the backend login and register endpoints.
func authServer(t *testing.T, validUser, validPass string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID   string `json:"user_id"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		res := map[string]any{"success": true}
		if req.UserID != validUser || req.Password != validPass {
			res = map[string]any{"success": false, "message": "用户名或密码错误"}
		}
		_ = json.NewEncoder(w).Encode(res)
	})
	mux.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(srv *httptest.Server) *api.Client {
	return api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL})
}

func newTestModel(t *testing.T, client *api.Client) Model {
	t.Helper()
	return New(styles.New(styles.ThemeDay), client, nil, nil)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func typeRunes(m Model, text string) Model {
	for _, r := range text {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// fillForm types credentials and moves focus to the submit button.
func fillForm(m Model, user, pass string) Model {
	m = typeRunes(m, user)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeRunes(m, pass)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab}) // remember
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab}) // submit
	return m
}

// fillRegisterForm types credentials plus the confirmation and moves focus
// to the submit button.
func fillRegisterForm(m Model, user, pass, confirm string) Model {
	m = typeRunes(m, user)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeRunes(m, pass)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab}) // confirm
	m = typeRunes(m, confirm)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab}) // remember
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab}) // submit
	return m
}

func TestSubmitEmptyFormShowsValidationError(t *testing.T) {
	m := newTestModel(t, api.NewClient())

	m = fillForm(m, "", "")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "请输入用户名和密码")
}

func TestLoginSuccessQuitsAuthenticated(t *testing.T) {
	srv := authServer(t, "alice", "secret")
	m := newTestModel(t, testClient(srv))

	m = fillForm(m, "alice", "secret")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	result := cmd()
	updated, quit := m.Update(result)
	m = updated.(Model)

	require.NotNil(t, quit)
	assert.True(t, m.Authenticated())
	assert.Equal(t, "alice", m.UserID())
}

func TestLoginRejectionShowsBackendMessage(t *testing.T) {
	srv := authServer(t, "alice", "secret")
	m := newTestModel(t, testClient(srv))

	m = fillForm(m, "alice", "wrong")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	updated, _ := m.Update(cmd())
	m = updated.(Model)

	assert.False(t, m.Authenticated())
	assert.Contains(t, m.View(), "用户名或密码错误")
}

func TestNetworkErrorShowsGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // force a connection failure
	m := newTestModel(t, testClient(srv))

	m = fillForm(m, "alice", "secret")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	updated, _ := m.Update(cmd())
	m = updated.(Model)

	assert.False(t, m.Authenticated())
	assert.Contains(t, m.View(), "网络错误")
}

func TestRegisterSuccessSwitchesToLogin(t *testing.T) {
	srv := authServer(t, "alice", "secret")
	m := newTestModel(t, testClient(srv))

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	require.Equal(t, ModeRegister, m.mode)

	m = fillRegisterForm(m, "bob", "hunter2", "hunter2")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	updated, _ := m.Update(cmd())
	m = updated.(Model)

	assert.Equal(t, ModeLogin, m.mode)
	assert.Contains(t, m.View(), "注册成功，请登录")
}

func TestRegisterShowsConfirmField(t *testing.T) {
	m := newTestModel(t, api.NewClient())
	assert.NotContains(t, m.View(), "确认密码")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Contains(t, m.View(), "确认密码")
}

func TestRegisterPasswordMismatchBlocksSubmit(t *testing.T) {
	m := newTestModel(t, api.NewClient())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	m = fillRegisterForm(m, "bob", "hunter2", "hunter3")
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "两次输入的密码不一致")
}

func TestLoginFocusSkipsConfirmField(t *testing.T) {
	m := newTestModel(t, api.NewClient())

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab}) // password
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusRemember, m.focus)
}

func TestEscapeCancels(t *testing.T) {
	m := newTestModel(t, api.NewClient())

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.True(t, m.canceled)
	assert.False(t, m.Authenticated())
}

func TestRememberMeSealsAndPrefills(t *testing.T) {
	dir := t.TempDir()
	vault, err := auth.NewVault(filepath.Join(dir, "vault.key"))
	require.NoError(t, err)
	local, err := storage.Open(filepath.Join(dir, "local.db"))
	require.NoError(t, err)
	defer local.Close()

	srv := authServer(t, "alice", "secret")
	m := New(styles.New(styles.ThemeDay), testClient(srv), vault, local)

	m = fillForm(m, "alice", "secret")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab}) // back to remember
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})    // toggle on
	require.True(t, m.remember)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab}) // submit

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	m = updated.(Model)
	require.True(t, m.Authenticated())

	// A fresh screen over the same store restores the credentials.
	m2 := New(styles.New(styles.ThemeDay), testClient(srv), vault, local)
	assert.Equal(t, "alice", m2.userID.Value())
	assert.Equal(t, "secret", m2.password.Value())
	assert.True(t, m2.remember)
	assert.Equal(t, "alice", local.UserID())
}

func TestViewShowsModeTitles(t *testing.T) {
	m := newTestModel(t, api.NewClient())

	assert.True(t, strings.Contains(m.View(), "登录 FilmPilot"))
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.True(t, strings.Contains(m.View(), "注册 FilmPilot"))
}
