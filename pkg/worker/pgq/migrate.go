package pgq

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres migration driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate brings the job queue tables up to date and returns the schema
// version.
func Migrate(cfg Config) (uint, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("pgq migrate: load migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.ConnectionURL())
	if err != nil {
		return 0, fmt.Errorf("pgq migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("pgq migrate: %w", err)
	}

	ver, _, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("pgq migrate: read version: %w", err)
	}
	return ver, nil
}
