package cmd

import (
	"context"
	"fmt"

	"github.com/renato0307/outpost/internal/services"
)

// OfflineCmd switches to offline play
type OfflineCmd struct{}

// Run executes the offline command
func (o *OfflineCmd) Run(cli *CLI) error {
	return cli.changeSession(func(ctx context.Context, e *services.Engine) error {
		return e.Session.EnterOfflineMode(ctx)
	}, "Playing offline. Actions are queued until you log in.")
}

// LogoutCmd forgets the credential
type LogoutCmd struct{}

// Run executes the logout command
func (o *LogoutCmd) Run(cli *CLI) error {
	return cli.changeSession(func(ctx context.Context, e *services.Engine) error {
		return e.Session.Logout(ctx)
	}, "Logged out. Queued actions are kept for the next login.")
}

func (c *CLI) changeSession(change func(ctx context.Context, e *services.Engine) error, message string) error {
	container, err := c.open()
	if err != nil {
		return err
	}
	defer container.Close()

	return container.Run(context.Background(), func(ctx context.Context) error {
		if err := container.Do(ctx, change); err != nil {
			return err
		}
		fmt.Println(message)
		return nil
	})
}
