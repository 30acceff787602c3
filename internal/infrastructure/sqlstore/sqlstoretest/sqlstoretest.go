// Package sqlstoretest provides a migrated Session for package tests.
//
// Tests run against in-memory SQLite unless TEST_DRIVER and TEST_DSN point at
// another database, e.g. TEST_DRIVER=postgres TEST_DSN=postgres://... .
package sqlstoretest

import (
	"database/sql"
	"io"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-crud/internal/infrastructure/sqlstore"
)

// NewSession returns a Session on an empty users table and closes it when t ends.
func NewSession(t testing.TB, opts ...sqlstore.SessionOption) *sqlstore.Session {
	t.Helper()

	driver := os.Getenv("TEST_DRIVER")
	dsn := os.Getenv("TEST_DSN")
	if driver == "" {
		driver = "sqlite3"
		dsn = ":memory:"
	}

	dialect, err := sqlstore.DialectFor(driver)
	if err != nil {
		t.Fatalf("unsupported TEST_DRIVER: %v", err)
	}

	var db *sql.DB
	switch dialect.(type) {
	case sqlstore.PostgreSQLDialect:
		db, err = sql.Open("pgx", dsn)
	default:
		db, err = sqlstore.OpenSQLite(dsn)
	}
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	if err := sqlstore.Migrate(db, dialect, Logger()); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	// Persistent databases keep rows between tests.
	if _, err := db.Exec("DELETE FROM users"); err != nil {
		t.Fatalf("Failed to clean users: %v", err)
	}

	session := sqlstore.NewSession(db, dialect, opts...)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

// Logger returns a logrus logger that discards output.
func Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
