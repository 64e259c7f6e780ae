package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/renato0307/outpost/internal/services"
)

// SyncCmd replays the queue now
type SyncCmd struct{}

// Run executes the sync command
func (s *SyncCmd) Run(cli *CLI) error {
	container, err := cli.open()
	if err != nil {
		return err
	}
	defer container.Close()

	return container.Run(context.Background(), func(ctx context.Context) error {
		queued := 0
		err := container.Do(ctx, func(ctx context.Context, e *services.Engine) error {
			if !e.Session.IsAuthenticated() {
				return errors.New("not signed in, run outpost login first")
			}
			queued = e.Queue.Len()
			e.Drainer.Drain(ctx)
			return nil
		})
		if err != nil {
			return err
		}

		drained, err := container.awaitDrained(ctx, cli.Wait)
		if err != nil {
			return err
		}
		if !drained {
			return fmt.Errorf("queue not drained within %s", cli.Wait)
		}
		fmt.Printf("Replayed %d queued actions.\n", queued)
		return nil
	})
}
