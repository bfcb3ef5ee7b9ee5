package cli

import (
	"context"
	"fmt"

	"github.com/campuspulse/campuspulse/internal/auth"
	"github.com/campuspulse/campuspulse/internal/logger"
)

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if _, ok := auth.Current(ctx.Store); !ok {
		fmt.Println("Not logged in.")
		return nil
	}

	// Best effort: the local session is cleared even when the service
	// cannot be reached.
	if err := ctx.API.Logout(context.Background()); err != nil {
		logger.Warn("Remote logout failed", "error", err)
	}

	if err := auth.Clear(ctx.Store); err != nil {
		return err
	}

	fmt.Println("Logged out.")
	return nil
}
