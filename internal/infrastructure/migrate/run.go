package migrate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"gorm.io/gorm"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

func newMigrator(db *gorm.DB, migrationPath string) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationPath),
		"postgres",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies every pending up migration.
func RunMigrations(db *gorm.DB, migrationPath string) error {
	m, err := newMigrator(db, migrationPath)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	version, dirty, err := m.Version()
	logVersion(slog.Default(), version, dirty, err)
	return nil
}

func logVersion(logger *slog.Logger, version uint, dirty bool, err error) {
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("migrations applied", "version", "none")
	case err != nil:
		logger.Warn("migrations applied, reading version failed", "error", err)
	default:
		logger.Info("migrations applied", "version", version, "dirty", dirty)
	}
}

// RollbackMigrations reverts the last steps migrations.
func RollbackMigrations(db *gorm.DB, migrationPath string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("rollback steps must be positive, got %d", steps)
	}
	m, err := newMigrator(db, migrationPath)
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rolling back migrations: %w", err)
	}

	slog.Info("migrations rolled back", "steps", steps)
	return nil
}
