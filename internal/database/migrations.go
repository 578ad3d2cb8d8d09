package database

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// MigrationsDir is where the store schema migrations live, relative to
// the working directory of the API binary.
const MigrationsDir = "migrations"

// RunMigrations brings the store schema up to date and reports the
// version it landed on. An empty dir falls back to MigrationsDir.
func RunMigrations(db *sql.DB, dir string, logger *zap.Logger) error {
	if dir == "" {
		dir = MigrationsDir
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	logger.Info("Applying pending schema migrations", zap.String("dir", dir))

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	logger.Info("Store schema is up to date", zap.Int64("schema_version", version))
	return nil
}

// GetMigrationStatus prints the per-migration status for dir
func GetMigrationStatus(db *sql.DB, dir string) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.Status(db, dir)
}
