package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/renato0307/outpost/internal/logging"
	"github.com/renato0307/outpost/internal/services"
)

// LoginCmd signs in and replays queued actions
type LoginCmd struct {
	Email    string `help:"Account email" short:"e"`
	Password string `help:"Account password (prompted when omitted)" env:"OUTPOST_PASSWORD"`
	Token    string `help:"Use an existing credential token instead of email and password"`
}

// Run executes the login command
func (l *LoginCmd) Run(cli *CLI) error {
	container, err := cli.open()
	if err != nil {
		return err
	}
	defer container.Close()

	token := l.Token
	if token == "" {
		if err := l.prompt(); err != nil {
			return err
		}
		logging.Logger.Info("Logging in", "email", l.Email)
		token, err = container.Client.Login(context.Background(), l.Email, l.Password)
		if err != nil {
			return err
		}
	}

	return container.Run(context.Background(), func(ctx context.Context) error {
		err := container.Do(ctx, func(ctx context.Context, e *services.Engine) error {
			return e.Session.SetCredential(ctx, token, nil)
		})
		if err != nil {
			return fmt.Errorf("failed to store credential: %w", err)
		}

		drained, err := container.awaitDrained(ctx, cli.Wait)
		if err != nil {
			return err
		}
		if !drained {
			fmt.Println("Signed in. Some queued actions are still waiting for the server.")
		}

		snap, err := container.snapshot(ctx)
		if err != nil {
			return err
		}
		return printSnapshot(snap, "table")
	})
}

// prompt asks for whatever credentials were not given as flags
func (l *LoginCmd) prompt() error {
	if l.Email != "" && l.Password != "" {
		return nil
	}

	var fields []huh.Field
	if l.Email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(&l.Email).
			Validate(func(s string) error {
				if !strings.Contains(s, "@") {
					return errors.New("enter a valid email")
				}
				return nil
			}))
	}
	if l.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&l.Password).
			Validate(func(s string) error {
				if s == "" {
					return errors.New("password required")
				}
				return nil
			}))
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("login cancelled: %w", err)
	}
	return nil
}
