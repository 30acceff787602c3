package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-crud/config"
	"github.com/oksasatya/go-user-crud/internal/infrastructure/postgres"
)

// Open connects to the database selected by cfg.DBDriver, applies the schema
// when cfg.DBAutoMigrate is set and returns a Session ready for repositories.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger, opts ...SessionOption) (*Session, error) {
	dialect, err := DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, err
	}
	opts = append([]SessionOption{WithLogger(logger)}, opts...)

	switch dialect.(type) {
	case PostgreSQLDialect:
		return openPostgres(ctx, cfg, logger, opts)
	default:
		return openSQLite(cfg, logger, opts)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *logrus.Logger, opts []SessionOption) (*Session, error) {
	dsn := cfg.PostgresDSN()
	if cfg.DBAutoMigrate {
		mdb, err := postgres.OpenMigrationDB(dsn)
		if err != nil {
			return nil, fmt.Errorf("open migration db: %w", err)
		}
		err = Migrate(mdb, PostgreSQL, logger)
		_ = mdb.Close()
		if err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, dsn, cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	s := NewSession(postgres.OpenDB(pool), PostgreSQL, opts...)
	s.onClose = append(s.onClose, pool.Close)
	return s, nil
}

func openSQLite(cfg *config.Config, logger *logrus.Logger, opts []SessionOption) (*Session, error) {
	db, err := OpenSQLite(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if cfg.DBAutoMigrate {
		if err := Migrate(db, SQLite, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return NewSession(db, SQLite, opts...), nil
}

// OpenSQLite opens dsn with a single connection so ":memory:" databases are
// shared by every unit of work.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
