package accounts

import (
	"context"
	"errors"

	"github.com/julianstephens/daydicated/internal/cli"
	apperrors "github.com/julianstephens/daydicated/internal/errors"
	"github.com/julianstephens/daydicated/internal/logger"
)

type LoginCmd struct {
	Email string `arg:"" help:"Email address of the account."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	password, err := ctx.PromptPassword("Password: ")
	if err != nil {
		return err
	}
	user, err := ctx.Auth.Login(context.Background(), c.Email, password)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Signed in as %s\n", user.Label())
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if _, ok, err := ctx.Auth.Restore(context.Background()); err != nil {
		logger.Warn("Failed to read session before logout", "error", err)
	} else if !ok {
		ctx.Println("Not signed in.")
		return nil
	}
	if err := ctx.Auth.Logout(); err != nil {
		return err
	}
	ctx.Println("✓ Signed out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireActor(context.Background())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotAuthenticated) {
			ctx.Println("Not signed in.")
			return nil
		}
		return err
	}
	ctx.Printf("%s <%s>\n", user.Label(), user.Email)
	return nil
}
