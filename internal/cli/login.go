package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/campuspulse/campuspulse/internal/auth"
	"github.com/campuspulse/campuspulse/internal/logger"
)

type LoginCmd struct {
	Username string `short:"u" help:"Username. Prompted for when omitted."`
	Password string `short:"p" help:"Password. Prompted for when omitted; prefer the prompt over shell history."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	username := c.Username
	password := c.Password

	if username == "" || password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Username").
					Value(&username).
					Validate(func(s string) error {
						if s == "" {
							return fmt.Errorf("username is required")
						}
						return nil
					}),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&password).
					Validate(func(s string) error {
						if s == "" {
							return fmt.Errorf("password is required")
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	user, token, err := ctx.API.Login(context.Background(), username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := auth.Save(ctx.Store, user, token); err != nil {
		return fmt.Errorf("login succeeded but saving the session failed: %w", err)
	}

	logger.Info("Logged in", "username", user.Username, "role", user.Role)
	fmt.Printf("Logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}
