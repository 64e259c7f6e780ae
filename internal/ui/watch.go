package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/outpost/internal/logging"
	"github.com/renato0307/outpost/internal/theme"
)

const (
	maxRecentEvents = 8

	// settlingPoll is how often the view reloads while the session settles
	settlingPoll = 250 * time.Millisecond
)

// Controller gives the view access to the engine
type Controller interface {
	Perform(ctx context.Context, action Action) error
	Snapshot(ctx context.Context) (Snapshot, error)
}

// WatchModel is the live view of the session, the player state and the
// settlement feed
type WatchModel struct {
	controller Controller
	err        error
	help       help.Model
	keys       WatchKeys
	notice     string
	recent     []string
	snapshot   Snapshot
	spinner    spinner.Model
	width      int
}

// NewWatchModel creates the model
func NewWatchModel(controller Controller) *WatchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.SpinnerStyle

	return &WatchModel{
		controller: controller,
		help:       help.New(),
		keys:       newWatchKeys(),
		spinner:    s,
		width:      80,
	}
}

// Init loads the first snapshot and starts the replay spinner
func (m *WatchModel) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.spinner.Tick)
}

// Update handles messages
func (m *WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if action, ok := m.keys.actionFor(msg); ok {
			m.err = nil
			return m, m.perform(action)
		}
		return m, nil

	case SnapshotMsg:
		m.snapshot = msg.Snapshot
		if !m.snapshot.Session.IsStable {
			return m, pollSettling()
		}
		return m, nil

	case settlingMsg:
		return m, m.refresh()

	case SettledMsg:
		m.recent = append([]string{RenderSettled(msg.Event)}, m.recent...)
		if len(m.recent) > maxRecentEvents {
			m.recent = m.recent[:maxRecentEvents]
		}
		return m, m.refresh()

	case AuthChangedMsg:
		m.notice = ""
		return m, m.refresh()

	case AuthRequiredMsg:
		m.notice = "Login required: " + msg.Event.Reason + " (run outpost login)"
		return m, m.refresh()

	case QueueDrainedMsg:
		return m, m.refresh()

	case actionDoneMsg:
		logging.Logger.Debug("Watch action done", "action", msg.action)
		return m, m.refresh()

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// View renders the model
func (m *WatchModel) View() string {
	var b strings.Builder
	b.WriteString(renderHeader("Live status"))
	b.WriteString("\n\n")
	b.WriteString(RenderStatus(m.snapshot))
	b.WriteString("\n")
	if m.snapshot.Draining {
		b.WriteString(m.spinner.View() + theme.MutedStyle.Render(" replaying queue") + "\n")
	}

	if m.notice != "" {
		b.WriteString("\n" + theme.ErrorStyle.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + theme.SubtitleStyle.Render("Recent") + "\n")
	if len(m.recent) == 0 {
		b.WriteString(theme.MutedStyle.Render("nothing settled yet") + "\n")
	}
	for _, line := range m.recent {
		b.WriteString(line + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + theme.ErrorStyle.Render(formatErrorForDisplay(m.err, m.width)) + "\n")
	}

	b.WriteString(theme.HelpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// pollSettling reloads once the session had time to settle
func pollSettling() tea.Cmd {
	return tea.Tick(settlingPoll, func(time.Time) tea.Msg {
		return settlingMsg{}
	})
}

func (m *WatchModel) refresh() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.controller.Snapshot(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return SnapshotMsg{Snapshot: snap}
	}
}

func (m *WatchModel) perform(action Action) tea.Cmd {
	if action == ActionRefresh {
		return m.refresh()
	}
	return func() tea.Msg {
		if err := m.controller.Perform(context.Background(), action); err != nil {
			return errMsg{err: err}
		}
		return actionDoneMsg{action: action}
	}
}
