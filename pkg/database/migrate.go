package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationsTable keeps campus-sync's version row apart from other tools
// sharing the database.
const migrationsTable = "campus_sync_migrations"

// ErrDirtySchema means a previous migration stopped half way. The server
// refuses to start on it; fix the schema by hand, then run
// `migrate force <version>`.
var ErrDirtySchema = errors.New("database schema is dirty")

// RunMigrations applies every pending migration and logs the version
// change.
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}

	from, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return upError(err)
	}

	to, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("%w at version %d", ErrDirtySchema, to)
	}

	if from == to {
		logger.Info("database schema up to date", zap.Uint("version", to))
	} else {
		logger.Info("database migrations applied", zap.Uint("from", from), zap.Uint("to", to))
	}
	return nil
}

// upError maps migrate's dirty error onto ErrDirtySchema.
func upError(err error) error {
	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		return fmt.Errorf("%w at version %d", ErrDirtySchema, dirty.Version)
	}
	return fmt.Errorf("apply migrations: %w", err)
}
