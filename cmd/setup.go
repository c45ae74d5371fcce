package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/desertthunder/reel/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a config file from the embedded template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s already exists", shared.ErrAlreadyExists, path)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Config written to %s\n", path)
}

// SetupDatabase initializes the backend database and runs migrations.
//
// With --status it lists applied migrations; with --rollback it reverts the latest one.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	db, path, err := r.openDatabase(cmd.String("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case cmd.Bool("status"):
		states, err := shared.MigrationStatus(db)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		r.writePlainHeader("Migrations: " + path)
		for _, s := range states {
			mark := " "
			applied := "pending"
			if s.Applied {
				mark = "✓"
				applied = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
			r.writePlain("%s %03d %-32s %s\n", mark, s.Version, s.Name, applied)
		}
		return nil
	case cmd.Bool("rollback"):
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		r.logger.Info("rolled back latest migration", "path", path)
		return r.writePlain("✓ Rolled back latest migration\n")
	}

	r.logger.Info("running database migrations", "path", path)
	applied, err := shared.RunMigrations(db)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", path)
	return r.writePlain("✓ Applied %d migration(s) to %s\n", applied, path)
}

// openDatabase opens the database at override, or the configured path when empty.
func (r *Runner) openDatabase(override string) (*sql.DB, string, error) {
	path := override
	if path == "" {
		path = r.config.Database.Path
	}
	path = shared.ExpandPath(path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
	return db, path, nil
}
