package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Session owns the connection pool and hands out one transaction per unit of work.
type Session struct {
	db      *sqlx.DB
	dialect Dialect
	obs     *observability
	onClose []func()
}

func NewSession(db *sql.DB, dialect Dialect, opts ...SessionOption) *Session {
	s := &Session{
		db:      sqlx.NewDb(db, dialect.Name()),
		dialect: dialect,
		obs:     defaultObservability(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Dialect() Dialect { return s.dialect }

// DB exposes the underlying pool for maintenance tasks such as migrations.
func (s *Session) DB() *sql.DB { return s.db.DB }

// Close closes the pool and releases anything registered by Open.
func (s *Session) Close() error {
	err := s.db.Close()
	for i := len(s.onClose) - 1; i >= 0; i-- {
		s.onClose[i]()
	}
	return err
}

// Transaction runs fn inside a transaction named op.
// The transaction is committed when fn returns nil and rolled back when fn
// returns an error or panics. The error from fn is returned unchanged.
func (s *Session) Transaction(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) (err error) {
	ctx, span := s.startSpan(ctx, op)
	start := time.Now()
	defer func() {
		s.finish(ctx, span, op, time.Since(start), err)
	}()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			s.rollback(tx, op)
			panic(p)
		} else if err != nil {
			s.rollback(tx, op)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Session) rollback(tx *sqlx.Tx, op string) {
	rbErr := tx.Rollback()
	// a failed Commit has already ended the transaction
	if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) && s.obs.logger != nil {
		s.obs.logger.WithError(rbErr).WithField("op", op).Warn("rollback failed")
	}
}
