// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main Bubble Tea view for the filmpilot TUI.
package chat

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmpilot/filmpilot-tui/internal/api"
	"github.com/filmpilot/filmpilot-tui/internal/config"
	"github.com/filmpilot/filmpilot-tui/internal/geo"
	"github.com/filmpilot/filmpilot-tui/internal/model"
	"github.com/filmpilot/filmpilot-tui/internal/session"
	"github.com/filmpilot/filmpilot-tui/internal/store"
	"github.com/filmpilot/filmpilot-tui/internal/stream"
	"github.com/filmpilot/filmpilot-tui/internal/ui/styles"
)

// fakeBackend replays one scripted reply.
type fakeBackend struct {
	reply *api.WorkflowReply
	err   error
}

func (f *fakeBackend) Workflow(ctx context.Context, req api.WorkflowRequest) (*api.WorkflowReply, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func newTestModel(t *testing.T, backend session.WorkflowClient) Model {
	t.Helper()
	ctrl := session.New(store.NewConversationStore(), stream.NewSimulator(), backend, geo.NewResolver(nil), nil)
	m := New(styles.New(styles.ThemeDay), ctrl, nil, nil, nil, nil)
	resized, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return resized.(Model)
}

// denyLocation pre-answers the location prompt so submits stage directly.
func denyLocation(t *testing.T, m Model) {
	t.Helper()
	m.Controller().ResolvePermission(context.Background(), false)
}

func pressKey(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// drainStream feeds tick messages until the reveal commits.
func drainStream(t *testing.T, m Model) Model {
	t.Helper()

	gen := m.Controller().Stream().Generation()
	for i := 0; i < 10000; i++ {
		updated, cmd := m.Update(StreamTickMsg{Gen: gen})
		m = updated.(Model)
		if m.Controller().State() != session.StateStreaming {
			return m
		}
		require.NotNil(t, cmd, "streaming state must schedule the next tick")
	}
	t.Fatal("stream never finished")
	return m
}

func TestSubmitEmptyInputRejected(t *testing.T) {
	m := newTestModel(t, &fakeBackend{reply: &api.WorkflowReply{Text: "hi"}})
	denyLocation(t, m)

	m, cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, session.StateIdle, m.Controller().State())
	assert.Nil(t, m.Controller().Store().Active())
}

func TestSubmitStagesAndStreamsReply(t *testing.T) {
	m := newTestModel(t, &fakeBackend{reply: &api.WorkflowReply{Text: "推荐《星际穿越》"}})
	denyLocation(t, m)

	m = typeText(t, m, "想看科幻片")
	m, cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, session.StateSending, m.Controller().State())
	assert.Empty(t, m.input.Value(), "input clears on accepted submit")

	ex := m.Controller().Send(context.Background())
	require.NotNil(t, ex)
	updated, cmd := m.Update(ExchangeMsg{Exchange: ex})
	m = updated.(Model)

	require.NotNil(t, cmd, "streaming must start the tick loop")
	assert.Equal(t, session.StateStreaming, m.Controller().State())

	m = drainStream(t, m)
	assert.Equal(t, session.StateIdle, m.Controller().State())

	conv := m.Controller().Store().Active()
	require.NotNil(t, conv)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, model.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, "推荐《星际穿越》", conv.Messages[1].Content)
}

func TestFirstSubmitOpensPermissionPrompt(t *testing.T) {
	m := newTestModel(t, &fakeBackend{reply: &api.WorkflowReply{Text: "ok"}})

	m = typeText(t, m, "附近的电影院")
	m, cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, FocusPermission, m.Focus())
	assert.True(t, m.permission.IsVisible())
	assert.Equal(t, session.StateAwaitingPermission, m.Controller().State())
}

func TestPermissionDenialStillSends(t *testing.T) {
	m := newTestModel(t, &fakeBackend{reply: &api.WorkflowReply{Text: "ok"}})

	m = typeText(t, m, "附近的电影院")
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, FocusPermission, m.Focus())

	// Move focus to 拒绝 and confirm.
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, FocusInput, m.Focus())

	msg := cmd()
	resolved, ok := msg.(PermissionResolvedMsg)
	require.True(t, ok)
	assert.Equal(t, session.SubmitReady, resolved.Outcome)

	updated, cmd := m.Update(resolved)
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, session.StateSending, m.Controller().State())
}

func TestRouteReplyUpdatesStateAndTranscript(t *testing.T) {
	route := &model.RoutePayload{Destination: model.Place{Keyword: "万达影城"}}
	m := newTestModel(t, &fakeBackend{reply: &api.WorkflowReply{Route: route}})
	denyLocation(t, m)

	m = typeText(t, m, "怎么去万达影城")
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	ex := m.Controller().Send(context.Background())
	updated, _ := m.Update(ExchangeMsg{Exchange: ex})
	m = updated.(Model)

	// Without a panel the turn completes immediately.
	assert.Equal(t, session.StateIdle, m.Controller().State())

	conv := m.Controller().Store().Active()
	require.NotNil(t, conv)
	require.Len(t, conv.Messages, 2)
	assert.True(t, conv.Messages[1].IsRoute())
}

func TestBackendErrorCommitsApology(t *testing.T) {
	m := newTestModel(t, &fakeBackend{err: context.DeadlineExceeded})
	denyLocation(t, m)

	m = typeText(t, m, "推荐电影")
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	ex := m.Controller().Send(context.Background())
	updated, _ := m.Update(ExchangeMsg{Exchange: ex})
	m = updated.(Model)

	assert.Equal(t, session.StateError, m.Controller().State())
	conv := m.Controller().Store().Active()
	require.NotNil(t, conv)
	assert.Equal(t, model.ApologyText, conv.Messages[1].Content)
}

func TestStaleStreamTickIsDropped(t *testing.T) {
	m := newTestModel(t, &fakeBackend{reply: &api.WorkflowReply{Text: "一段比较长的回复文本"}})
	denyLocation(t, m)

	m = typeText(t, m, "推荐")
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	ex := m.Controller().Send(context.Background())
	updated, _ := m.Update(ExchangeMsg{Exchange: ex})
	m = updated.(Model)
	require.Equal(t, session.StateStreaming, m.Controller().State())

	gen := m.Controller().Stream().Generation()
	updated, cmd := m.Update(StreamTickMsg{Gen: gen - 1})
	m = updated.(Model)

	assert.Nil(t, cmd, "stale generation must not reschedule")
	assert.Equal(t, session.StateStreaming, m.Controller().State())
}

func TestTabTogglesSidebarFocus(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	denyLocation(t, m)

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FocusSidebar, m.Focus())

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FocusInput, m.Focus())
}

func TestNewConversationShortcut(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	denyLocation(t, m)

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})

	assert.Equal(t, 1, m.Controller().Store().Len())
	assert.NotNil(t, m.Controller().Store().Active())
}

func TestSidebarDeleteAndRename(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	denyLocation(t, m)
	m.Controller().NewConversation()
	m.Controller().NewConversation()

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m.refreshSidebar()

	// Rename the conversation under the cursor.
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.True(t, m.renaming)
	m.renameInput.SetValue("影单讨论")
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.renaming)

	names := make([]string, 0)
	for _, conv := range m.Controller().Store().List() {
		names = append(names, conv.Name)
	}
	assert.Contains(t, names, "影单讨论")

	// Delete it.
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	assert.Equal(t, 1, m.Controller().Store().Len())
}

func TestThemeShortcutCyclesAndRestyles(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	denyLocation(t, m)
	require.Equal(t, styles.ThemeDay, m.theme.Name)

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, styles.ThemeNight, m.theme.Name)

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, styles.ThemeEye, m.theme.Name)

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, styles.ThemeDay, m.theme.Name)
}

func TestConfigReloadAppliesNewTheme(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	require.Equal(t, styles.ThemeDay, m.theme.Name)

	next := config.Default()
	next.UI.Theme = styles.ThemeEye

	updated, _ := m.Update(ConfigReloadedMsg{Config: next})
	m = updated.(Model)

	assert.Equal(t, styles.ThemeEye, m.theme.Name)
}

func TestSettingsToggleCommitsToController(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	denyLocation(t, m)

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, FocusSettings, m.Focus())

	// Select the first age range.
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, model.AgeRanges[0], m.Controller().Settings().AgeRange)

	// Toggle the first genre on the third panel.
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{model.MovieGenres[0]}, m.Controller().Settings().Genres)

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, FocusInput, m.Focus())
}

func TestRecommendationsMsgPopulatesBanner(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	denyLocation(t, m)
	m.Controller().NewConversation()

	movies := []api.Movie{{Title: "流浪地球", Year: "2019", Rating: 7.9}}
	updated, _ := m.Update(RecommendationsMsg{Movies: movies})
	m = updated.(Model)

	assert.True(t, m.recommendations.HasMovies())
	assert.Contains(t, m.renderConversation(), "流浪地球")
}

func TestRecommendationsFetchErrorIgnored(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})

	updated, _ := m.Update(RecommendationsMsg{Err: context.DeadlineExceeded})
	m = updated.(Model)

	assert.False(t, m.recommendations.HasMovies())
}

func TestViewShowsStateAndTranscript(t *testing.T) {
	m := newTestModel(t, &fakeBackend{reply: &api.WorkflowReply{Text: "看《盗梦空间》吧"}})
	denyLocation(t, m)

	m = typeText(t, m, "推荐一部电影")
	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	ex := m.Controller().Send(context.Background())
	updated, _ := m.Update(ExchangeMsg{Exchange: ex})
	m = drainStream(t, updated.(Model))

	view := m.View()
	assert.True(t, strings.Contains(view, "FilmPilot"))
	assert.True(t, strings.Contains(view, "空闲"))
	assert.True(t, strings.Contains(view, "推荐一部电影"))
}
