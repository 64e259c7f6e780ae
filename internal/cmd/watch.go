package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/renato0307/outpost/internal/adapters/sound"
	"github.com/renato0307/outpost/internal/domain"
	"github.com/renato0307/outpost/internal/logging"
	"github.com/renato0307/outpost/internal/services"
	"github.com/renato0307/outpost/internal/ui"
)

// WatchCmd starts the live view
type WatchCmd struct {
	Sound bool `help:"Play a sound when an action settles or login is needed"`
}

// Run executes the watch command
func (w *WatchCmd) Run(cli *CLI) error {
	container, err := cli.open()
	if err != nil {
		return err
	}
	defer container.Close()

	return container.Run(context.Background(), func(ctx context.Context) error {
		p := tea.NewProgram(
			ui.NewWatchModel(&watchController{container: container}),
			tea.WithAltScreen(),
			tea.WithContext(ctx),
		)

		var player *sound.Player
		if w.Sound {
			player = sound.NewPlayer()
		}

		unsubscribe, err := container.forward(ctx, p, player)
		if err != nil {
			return err
		}
		defer container.release(ctx, unsubscribe)

		logging.Logger.Info("Starting TUI program")
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			logging.Logger.Error("TUI program error", "error", err)
			return fmt.Errorf("error running program: %w", err)
		}

		logging.Logger.Info("TUI program exited normally")
		return nil
	})
}

// forward relays engine events to the program, and to player when not
// nil. Send blocks until the program reads the message, so it never runs
// on the engine loop.
func (c *Container) forward(ctx context.Context, p *tea.Program, player *sound.Player) (func(), error) {
	alert := func(a sound.Alert) {
		if player == nil {
			return
		}
		go func() {
			if err := player.Play(a); err != nil {
				logging.Logger.Warn("Failed to play sound", "alert", a, "error", err)
			}
		}()
	}

	var unsubscribers []func()
	err := c.Do(ctx, func(context.Context, *services.Engine) error {
		subscriptions := []func() (func(), error){
			func() (func(), error) {
				return c.Bus.OnTransactionSettled(func(e domain.TransactionSettled) {
					if a, ok := sound.AlertForSettlement(e); ok {
						alert(a)
					}
					go p.Send(ui.SettledMsg{Event: e})
				})
			},
			func() (func(), error) {
				return c.Bus.OnAuthChanged(func(e domain.AuthChanged) { go p.Send(ui.AuthChangedMsg{Event: e}) })
			},
			func() (func(), error) {
				return c.Bus.OnAuthRequired(func(e domain.AuthRequired) {
					alert(sound.AlertAttention)
					go p.Send(ui.AuthRequiredMsg{Event: e})
				})
			},
			func() (func(), error) {
				return c.Bus.OnQueueDrained(func(e domain.QueueDrained) { go p.Send(ui.QueueDrainedMsg{Event: e}) })
			},
		}
		for _, subscribe := range subscriptions {
			unsubscribe, err := subscribe()
			if err != nil {
				return err
			}
			unsubscribers = append(unsubscribers, unsubscribe)
		}
		return nil
	})

	unsubscribeAll := func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
	if err != nil {
		unsubscribeAll()
		return nil, err
	}
	return unsubscribeAll, nil
}

// watchController runs view actions on the engine loop
type watchController struct {
	container *Container
}

func (w *watchController) Perform(ctx context.Context, action ui.Action) error {
	return w.container.Do(ctx, func(ctx context.Context, e *services.Engine) error {
		switch action {
		case ui.ActionGoOffline:
			return e.Session.EnterOfflineMode(ctx)
		case ui.ActionLogout:
			return e.Session.Logout(ctx)
		case ui.ActionSync:
			if !e.Session.IsAuthenticated() {
				return errors.New("not signed in, run outpost login first")
			}
			e.Drainer.Drain(ctx)
			return nil
		}
		return fmt.Errorf("unknown action %q", action)
	})
}

func (w *watchController) Snapshot(ctx context.Context) (ui.Snapshot, error) {
	return w.container.snapshot(ctx)
}
