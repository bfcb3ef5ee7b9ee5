package cli

import (
	"fmt"

	"github.com/campuspulse/campuspulse/internal/api"
	"github.com/campuspulse/campuspulse/internal/auth"
	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/storage"
)

type Context struct {
	Store storage.Provider
	API   *api.Client
}

// requireSession returns the cached identity, failing when nobody is
// logged in.
func requireSession(ctx *Context) (models.User, error) {
	user, ok := auth.Current(ctx.Store)
	if !ok {
		return models.User{}, fmt.Errorf("not logged in, run 'campuspulse login' first")
	}
	return user, nil
}

// requireRole additionally checks the cached role. The service enforces
// this for real; the check just fails fast with a clearer message.
func requireRole(ctx *Context, role string) (models.User, error) {
	user, err := requireSession(ctx)
	if err != nil {
		return models.User{}, err
	}
	if user.Role != role {
		return models.User{}, fmt.Errorf("this command requires the %s role (logged in as %s)", role, user.Role)
	}
	return user, nil
}
