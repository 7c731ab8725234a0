/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/glucolens/db"
)

// sourceMigrationsDir is where create writes new files; it requires a
// source checkout.
const sourceMigrationsDir = "db/migrations"

var CmdMigrate = &cli.Command{
	Name:  "migrate",
	Usage: "Database migration commands",
	Flags: []cli.Flag{
		databaseURLFlag(),
	},
	Commands: []*cli.Command{
		{
			Name:   "up",
			Usage:  "Run all pending migrations",
			Action: withMigrator(goose.UpContext, "Migrations completed successfully"),
		},
		{
			Name:   "down",
			Usage:  "Roll back the last migration",
			Action: withMigrator(goose.DownContext, "Migration rolled back successfully"),
		},
		{
			Name:   "status",
			Usage:  "Show migration status",
			Action: withMigrator(goose.StatusContext, ""),
		},
		{
			Name:   "create",
			Usage:  "Create a new migration file <name>",
			Action: migrateCreate,
		},
		{
			Name:   "version",
			Usage:  "Print the current version of the database",
			Action: migrateVersion,
		},
	},
}

func openMigrator(ctx context.Context, cmd *cli.Command) (*sql.DB, error) {
	databaseURL := cmd.String("database-url")
	if databaseURL == "" {
		return nil, errDatabaseURLRequired
	}

	return db.OpenMigrator(ctx, databaseURL)
}

func withMigrator(run func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error, done string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		sqlDB, err := openMigrator(ctx, cmd)
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if err := run(ctx, sqlDB, db.MigrationsDir()); err != nil {
			return fmt.Errorf("migration %s failed: %w", cmd.Name, err)
		}

		if done != "" {
			fmt.Fprintln(cmd.Root().Writer, done)
		}

		return nil
	}
}

func migrateVersion(ctx context.Context, cmd *cli.Command) error {
	sqlDB, err := openMigrator(ctx, cmd)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get database version: %w", err)
	}

	fmt.Fprintf(cmd.Root().Writer, "Database version: %d\n", version)

	return nil
}

func migrateCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return errMigrationNameRequired
	}

	if err := os.MkdirAll(sourceMigrationsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create migrations directory: %w", err)
	}

	// The embedded FS is read-only, so create writes to the source tree.
	goose.SetBaseFS(nil)

	if err := goose.Create(nil, sourceMigrationsDir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Fprintf(cmd.Root().Writer, "Created new migration in %s/\n", sourceMigrationsDir)

	return nil
}
