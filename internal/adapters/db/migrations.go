// internal/adapters/db/migrations.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// ErrDirtySchema means an earlier migration stopped halfway and needs manual
// repair.
var ErrDirtySchema = errors.New("database schema is dirty")

// MigrationConfig points the migrator at the ledger database.
type MigrationConfig struct {
	DatabaseURL      string
	TableName        string
	SchemaName       string
	StatementTimeout time.Duration
}

func (c MigrationConfig) withDefaults() MigrationConfig {
	if c.TableName == "" {
		c.TableName = "schema_migrations"
	}
	if c.SchemaName == "" {
		c.SchemaName = "public"
	}
	if c.StatementTimeout == 0 {
		c.StatementTimeout = time.Minute
	}
	return c
}

// MigrateSchema brings the ledger_blobs schema up to date, retrying while
// the database is still starting. A dirty schema is not retried.
func MigrateSchema(ctx context.Context, cfg MigrationConfig, logger *slog.Logger, attempts int) error {
	cfg = cfg.withDefaults()
	logger = logger.With(slog.String("component", "migrator"))

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * 2 * time.Second
			logger.InfoContext(ctx, "retrying migration",
				slog.Int("attempt", attempt),
				slog.Duration("wait", wait))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		lastErr = applyMigrations(ctx, cfg, logger)
		if lastErr == nil || errors.Is(lastErr, ErrDirtySchema) {
			return lastErr
		}
		logger.ErrorContext(ctx, "migration failed",
			slog.String("error", lastErr.Error()),
			slog.Int("attempt", attempt))
	}

	return fmt.Errorf("migrations failed after %d attempts: %w", attempts, lastErr)
}

func applyMigrations(ctx context.Context, cfg MigrationConfig, logger *slog.Logger) (err error) {
	conn, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(2)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := postgres.WithInstance(conn, &postgres.Config{
		MigrationsTable:  cfg.TableName,
		SchemaName:       cfg.SchemaName,
		StatementTimeout: cfg.StatementTimeout,
	})
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	source, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	// m.Close closes conn through the driver.
	defer func() {
		sourceErr, dbErr := m.Close()
		if closeErr := errors.Join(sourceErr, dbErr); closeErr != nil {
			logger.WarnContext(ctx, "failed to close migrator", slog.String("error", closeErr.Error()))
		}
	}()

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.InfoContext(ctx, "creating ledger schema")
	case err != nil:
		return fmt.Errorf("failed to read schema version: %w", err)
	case dirty:
		return fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.InfoContext(ctx, "ledger schema is current", slog.Uint64("version", uint64(version)))
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if newVersion, _, err := m.Version(); err == nil {
		logger.InfoContext(ctx, "ledger schema migrated",
			slog.Uint64("from", uint64(version)),
			slog.Uint64("to", uint64(newVersion)))
	}
	return nil
}
