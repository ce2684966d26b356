package postgres

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationTableName is the name of the table used by goose to track migrations.
const migrationTableName = "schema_migrations"

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages
// to slog.Error. It does NOT call os.Exit; the error is returned to the caller,
// which handles application exit consistently.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// prepareGoose points goose at the embedded migrations and routes its
// output through slog. Goose keeps this state globally, so concurrent
// migration runs are not supported.
func prepareGoose(log *slog.Logger) error {
	goose.SetLogger(&slogGooseLogger{logger: log})
	goose.SetTableName(migrationTableName)
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

func migrationLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", "migrations"))
}

// MigrateUp applies all pending schema migrations embedded in the binary.
// It is safe to call on every startup; already-applied migrations are skipped.
func MigrateUp(db *sql.DB, logger *slog.Logger) error {
	log := migrationLogger(logger)
	if err := prepareGoose(log); err != nil {
		return err
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		log.Warn("could not read schema version after migrating",
			slog.String("error", err.Error()))
		return nil
	}

	log.Info("database schema is up to date", slog.Int64("version", version))
	return nil
}

// MigrateDown rolls back the most recently applied migration.
func MigrateDown(db *sql.DB, logger *slog.Logger) error {
	log := migrationLogger(logger)
	if err := prepareGoose(log); err != nil {
		return err
	}

	if err := goose.Down(db, "migrations"); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		log.Warn("could not read schema version after rollback",
			slog.String("error", err.Error()))
		return nil
	}

	log.Info("rolled back one migration", slog.Int64("version", version))
	return nil
}

// MigrateStatus logs the applied/pending state of every known migration.
func MigrateStatus(db *sql.DB, logger *slog.Logger) error {
	log := migrationLogger(logger)
	if err := prepareGoose(log); err != nil {
		return err
	}

	if err := goose.Status(db, "migrations"); err != nil {
		return fmt.Errorf("failed to report migration status: %w", err)
	}
	return nil
}
