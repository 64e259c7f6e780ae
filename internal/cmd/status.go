package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/renato0307/outpost/internal/services"
	"github.com/renato0307/outpost/internal/ui"
)

// StatusCmd displays the session, player state and pending work
type StatusCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the status command
func (s *StatusCmd) Run(cli *CLI) error {
	container, err := cli.open()
	if err != nil {
		return err
	}
	defer container.Close()

	return container.Run(context.Background(), func(ctx context.Context) error {
		snap, err := container.snapshot(ctx)
		if err != nil {
			return err
		}
		return printSnapshot(snap, s.Format)
	})
}

func (c *Container) snapshot(ctx context.Context) (ui.Snapshot, error) {
	var snap ui.Snapshot
	err := c.Do(ctx, func(_ context.Context, e *services.Engine) error {
		snap = ui.TakeSnapshot(e)
		return nil
	})
	return snap, err
}

func printSnapshot(snap ui.Snapshot, format string) error {
	if format == "json" {
		out := map[string]any{
			"balance":    snap.Player.Balance,
			"characters": snap.Player.Characters,
			"inventory":  snap.Player.Inventory,
			"mode":       snap.Session.Mode,
			"pending":    snap.Pending,
			"queued":     len(snap.Queue),
			"reachable":  snap.Reachable,
		}
		if snap.Identity != nil {
			out["email"] = snap.Identity.Email
			out["display_name"] = snap.Identity.DisplayName
		}
		return writeJSON(os.Stdout, out)
	}

	fmt.Println(ui.RenderStatus(snap))
	return nil
}
