package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/eduforge/aigen-api/internal/config"
	"github.com/eduforge/aigen-api/internal/platform/postgres"
)

// resolveMigration maps a migration command name to its implementation.
// Returns an error for commands the server does not support.
func resolveMigration(command string) (func(*sql.DB, *slog.Logger) error, error) {
	switch command {
	case "up":
		return postgres.MigrateUp, nil
	case "down":
		return postgres.MigrateDown, nil
	case "status":
		return postgres.MigrateStatus, nil
	default:
		return nil, fmt.Errorf("unknown migration command %q: expected up, down, or status", command)
	}
}

// runMigrations executes the requested migration command against the
// configured database and returns without starting the server.
func runMigrations(cfg *config.Config, command string, logger *slog.Logger) error {
	migrate, err := resolveMigration(command)
	if err != nil {
		return err
	}

	logger.Info("Executing migration command", "command", command)

	db, err := setupAppDatabase(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to connect for migrations: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database after migrations", "error", err)
		}
	}()

	return migrate(db, logger)
}
