package accounts

import (
	"context"
	"fmt"

	"github.com/julianstephens/daydicated/internal/cli"
)

type UserAddCmd struct {
	Email string `arg:"" help:"Email address used to sign in."`
	Name  string `help:"Display name shown in the users list."`
}

func (c *UserAddCmd) Run(ctx *cli.Context) error {
	password, err := ctx.PromptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := ctx.PromptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	user, err := ctx.Auth.Register(context.Background(), c.Email, c.Name, password)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Created user %s (%s)\n", user.Email, user.ID)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *cli.Context) error {
	users, err := ctx.Store.ListUsers(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		ctx.Println("No users yet. Add one with 'daydicated user add EMAIL'.")
		return nil
	}

	actor, signedIn := ctx.Auth.CurrentActor()
	for _, u := range users {
		marker := " "
		if signedIn && u.ID == actor.ID {
			marker = "*"
		}
		ctx.Printf("%s %-32s %-24s joined %s\n", marker, u.Email, u.DisplayName, u.CreatedAt.Format("2006-01-02"))
	}
	return nil
}
