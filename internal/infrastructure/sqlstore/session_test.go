package sqlstore_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-crud/internal/infrastructure/sqlstore"
	"github.com/oksasatya/go-user-crud/internal/infrastructure/sqlstore/sqlstoretest"
)

func insertRaw(ctx context.Context, t *testing.T, tx *sqlx.Tx) {
	t.Helper()
	q := "INSERT INTO users (name, email, age, created_at) VALUES (?, ?, ?, ?)"
	_, err := tx.ExecContext(ctx, tx.Rebind(q), "Tx", "tx@test.com", 20, time.Now().UTC())
	require.NoError(t, err)
}

func countUsers(t *testing.T, s *sqlstore.Session) int {
	t.Helper()
	var n int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM users").Scan(&n))
	return n
}

func TestTransactionCommits(t *testing.T) {
	s := sqlstoretest.NewSession(t)
	ctx := context.Background()

	err := s.Transaction(ctx, "insert", func(tx *sqlx.Tx) error {
		insertRaw(ctx, t, tx)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countUsers(t, s))
}

func TestTransactionRollsBackOnError(t *testing.T) {
	s := sqlstoretest.NewSession(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, "insert", func(tx *sqlx.Tx) error {
		insertRaw(ctx, t, tx)
		return boom
	})

	assert.Same(t, boom, err)
	assert.Equal(t, 0, countUsers(t, s))
}

func TestTransactionRollsBackOnPanic(t *testing.T) {
	s := sqlstoretest.NewSession(t)
	ctx := context.Background()

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = s.Transaction(ctx, "insert", func(tx *sqlx.Tx) error {
			insertRaw(ctx, t, tx)
			panic("kaboom")
		})
	})
	assert.Equal(t, 0, countUsers(t, s))
}

func TestTransactionLogsFailures(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := sqlstoretest.NewSession(t, sqlstore.WithLogger(logger))

	err := s.Transaction(context.Background(), "explode", func(tx *sqlx.Tx) error {
		return errors.New("boom")
	})
	require.Error(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "unit of work failed", entry.Message)
	assert.Equal(t, "explode", entry.Data["op"])
}

func TestTransactionLogsSlowUnits(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	s := sqlstoretest.NewSession(t, sqlstore.WithLogger(logger), sqlstore.WithSlowThreshold(time.Nanosecond))

	err := s.Transaction(context.Background(), "sleepy", func(tx *sqlx.Tx) error {
		time.Sleep(time.Millisecond)
		return nil
	})
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "slow unit of work", entry.Message)
}

func TestDialectFor(t *testing.T) {
	d, err := sqlstore.DialectFor("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", d.Name())

	d, err = sqlstore.DialectFor("pgx")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = sqlstore.DialectFor("oracle")
	assert.Error(t, err)
}

func TestTransactionCommitFailureSkipsRollbackWarning(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	s := sqlstoretest.NewSession(t, sqlstore.WithLogger(logger))

	err := s.Transaction(context.Background(), "early_end", func(tx *sqlx.Tx) error {
		return tx.Rollback()
	})

	require.ErrorIs(t, err, sql.ErrTxDone)
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, "rollback failed", e.Message)
	}
}
