package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/reel/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin signs in and persists the access token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	if password == "" {
		return fmt.Errorf("%w: --password or REEL_PASSWORD is required", shared.ErrMissingArgument)
	}

	r.logger.Info("logging in", "email", email)
	res := r.session.Login(ctx, email, password)
	if !res.OK {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, res.Message)
	}
	return r.writePlain("✓ Logged in as %s\n", r.session.Identity().Email)
}

// AuthRegister creates an account and signs in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	password := cmd.String("password")
	if password == "" {
		return fmt.Errorf("%w: --password or REEL_PASSWORD is required", shared.ErrMissingArgument)
	}

	r.logger.Info("registering", "email", email)
	res := r.session.Register(ctx, email, password, cmd.String("name"))
	if !res.OK {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, res.Message)
	}
	return r.writePlain("✓ Registered and logged in as %s\n", r.session.Identity().Email)
}

// AuthLogout forgets the persisted token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.session.Restore(ctx)
	r.session.Logout()
	return r.writePlain("✓ Logged out\n")
}

// AuthWhoami validates the persisted token and prints the identity.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	user := r.session.Identity()
	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlain("Name: %s\n", user.Name)
	r.writePlain("Email: %s\n", user.Email)
	r.writePlain("ID: %s\n", user.ID)
	return r.writePlain("Member since: %s\n", user.CreatedAt.Format("January 2006"))
}
