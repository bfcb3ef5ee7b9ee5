package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuspulse/campuspulse/internal/api"
	"github.com/campuspulse/campuspulse/internal/auth"
	"github.com/campuspulse/campuspulse/internal/logger"
	"github.com/campuspulse/campuspulse/internal/models"
)

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	cached, err := requireSession(ctx)
	if err != nil {
		return err
	}

	user, err := ctx.API.CurrentUser(context.Background())
	switch {
	case err == nil:
	case errors.Is(err, api.ErrUnauthorized):
		// The token is stale. Drop the local session so the next command
		// gives a clean "not logged in" instead of silently using bad
		// cached identity.
		if clearErr := auth.Clear(ctx.Store); clearErr != nil {
			logger.Warn("Failed to clear stale session", "error", clearErr)
		}
		return fmt.Errorf("session expired, run 'campuspulse login' again")
	default:
		// Offline: answer from the cached identity.
		logger.Warn("Could not verify session with the service", "error", err)
		user = cached
		fmt.Println("(service unreachable, showing cached identity)")
	}

	printUser(user)
	return nil
}

func printUser(user models.User) {
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Role:     %s\n", user.Role)
	if user.Batch != "" {
		fmt.Printf("Batch:    %s\n", user.Batch)
	}
}
