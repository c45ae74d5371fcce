package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/reel/internal/auth"
	"github.com/desertthunder/reel/internal/repositories"
	"github.com/desertthunder/reel/internal/server"
	"github.com/desertthunder/reel/internal/services"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve migrates the database and runs the backend API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	db, path, err := r.openDatabase(cmd.String("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Info("database ready", "path", path, "applied", applied)

	issuer, err := auth.NewIssuer(r.config.Auth.JWTSecret, r.config.Auth.JWTAlgorithm, r.config.Auth.Expiration())
	if err != nil {
		return err
	}

	movies, err := services.NewTMDBService(ctx, r.config.TMDB.APIKey, r.config.TMDB.BaseURL)
	if err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	srv := server.New(repositories.NewStore(db), issuer, movies, r.logger)
	return srv.ListenAndServe(ctx, addr)
}
