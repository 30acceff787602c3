package container

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-crud/config"
)

func TestNewWiresSQLiteStore(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{DBDriver: "sqlite3", SQLitePath: ":memory:", DBAutoMigrate: true}

	c, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer c.Close()

	u, err := c.Users.Create(context.Background(), "Alice", "alice@test.com", 30)
	require.NoError(t, err)

	found, err := c.Users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)
	assert.Nil(t, c.OpenRedis())
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), &config.Config{DBDriver: "oracle"}, logrus.New())
	assert.Error(t, err)
}

func TestOpenRedisWhenConfigured(t *testing.T) {
	c := &Container{Config: &config.Config{RedisAddr: "localhost:6379"}}

	rdb := c.OpenRedis()

	require.NotNil(t, rdb)
	assert.Same(t, rdb, c.OpenRedis())
	assert.NoError(t, rdb.Close())
}
