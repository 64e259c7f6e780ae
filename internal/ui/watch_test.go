package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/outpost/internal/domain"
)

type fakeController struct {
	err       error
	performed []Action
	snapshot  Snapshot
}

func (f *fakeController) Perform(_ context.Context, action Action) error {
	f.performed = append(f.performed, action)
	return f.err
}

func (f *fakeController) Snapshot(context.Context) (Snapshot, error) {
	return f.snapshot, nil
}

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWatchModel_InitLoadsSnapshot(t *testing.T) {
	ctrl := &fakeController{snapshot: sampleSnapshot()}
	m := NewWatchModel(ctrl)

	m.Update(m.refresh()())

	assert.Contains(t, m.View(), "Ada <ada@example.com>")
}

func TestWatchModel_KeysPerformActions(t *testing.T) {
	ctrl := &fakeController{snapshot: sampleSnapshot()}
	m := NewWatchModel(ctrl)

	for _, k := range []string{"s", "o", "x"} {
		_, cmd := m.Update(press(k))
		require.NotNil(t, cmd)
		done := cmd()
		assert.IsType(t, actionDoneMsg{}, done)

		_, refresh := m.Update(done)
		require.NotNil(t, refresh)
		assert.IsType(t, SnapshotMsg{}, refresh())
	}

	assert.Equal(t, []Action{ActionSync, ActionGoOffline, ActionLogout}, ctrl.performed)
}

func TestWatchModel_ActionErrorIsShown(t *testing.T) {
	ctrl := &fakeController{err: errors.New("not signed in")}
	m := NewWatchModel(ctrl)

	_, cmd := m.Update(press("s"))
	m.Update(cmd())

	assert.Contains(t, m.View(), "Error: not signed in")
}

func TestWatchModel_Quit(t *testing.T) {
	m := NewWatchModel(&fakeController{})

	_, cmd := m.Update(press("q"))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestWatchModel_EventFeed(t *testing.T) {
	m := NewWatchModel(&fakeController{})

	for i := 0; i < maxRecentEvents+2; i++ {
		m.Update(SettledMsg{Event: domain.TransactionSettled{Kind: domain.KindBuy, Status: domain.StatusCommitted}})
	}
	m.Update(AuthRequiredMsg{Event: domain.AuthRequired{Reason: "Token expired"}})

	assert.Len(t, m.recent, maxRecentEvents)
	assert.Contains(t, m.View(), "Login required: Token expired")

	m.Update(AuthChangedMsg{Event: domain.AuthChanged{Mode: domain.ModeAuthenticated}})
	assert.NotContains(t, m.View(), "Login required")
}

func TestWatchModel_EscQuits(t *testing.T) {
	m := NewWatchModel(&fakeController{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestWatchModel_RefreshKeyReloads(t *testing.T) {
	ctrl := &fakeController{snapshot: sampleSnapshot()}
	m := NewWatchModel(ctrl)

	_, cmd := m.Update(press("r"))

	require.NotNil(t, cmd)
	assert.IsType(t, SnapshotMsg{}, cmd())
	assert.Empty(t, ctrl.performed)
}

func TestWatchModel_HelpListsKeys(t *testing.T) {
	m := NewWatchModel(&fakeController{})

	view := m.View()

	assert.Contains(t, view, "sync")
	assert.Contains(t, view, "go offline")
	assert.Contains(t, view, "quit")
}

func TestWatchModel_PollsWhileSettling(t *testing.T) {
	snap := sampleSnapshot()
	snap.Session.IsStable = false
	ctrl := &fakeController{snapshot: snap}
	m := NewWatchModel(ctrl)

	_, cmd := m.Update(m.refresh()())
	require.NotNil(t, cmd, "unstable session schedules another load")
	assert.Contains(t, m.View(), "settling")

	ctrl.snapshot.Session.IsStable = true
	_, refresh := m.Update(settlingMsg{})
	require.NotNil(t, refresh)
	_, cmd = m.Update(refresh())

	assert.Nil(t, cmd)
	assert.NotContains(t, m.View(), "settling")
}
