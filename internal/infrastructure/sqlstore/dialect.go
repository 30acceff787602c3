package sqlstore

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var (
	SQLite     = SQLiteDialect{}
	PostgreSQL = PostgreSQLDialect{}
)

// Dialect abstracts the SQL differences between the supported databases.
type Dialect interface {
	// Name returns the database/sql driver name, also used to pick the
	// embedded migrations directory.
	Name() string
	// PlaceholderFormat returns the squirrel placeholder style ($1 vs ?).
	PlaceholderFormat() sq.PlaceholderFormat
}

type PostgreSQLDialect struct{}

func (PostgreSQLDialect) Name() string                            { return "postgres" }
func (PostgreSQLDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Dollar }

type SQLiteDialect struct{}

func (SQLiteDialect) Name() string                            { return "sqlite3" }
func (SQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat { return sq.Question }

// DialectFor maps a configured driver name to its Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "pgx":
		return PostgreSQL, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}
