package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate creates the users table on db using the embedded migrations for dialect.
// db is left open; callers own its lifecycle.
func Migrate(db *sql.DB, dialect Dialect, logger *logrus.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations/"+dialect.Name())
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	var driver database.Driver
	switch dialect.(type) {
	case PostgreSQLDialect:
		driver, err = pgmigrate.WithInstance(db, &pgmigrate.Config{})
	case SQLiteDialect:
		driver, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	default:
		err = fmt.Errorf("no migration driver for %s", dialect.Name())
	}
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect.Name(), driver)
	if err != nil {
		return err
	}
	logger.WithField("dialect", dialect.Name()).Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
