package container

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-crud/config"
	"github.com/oksasatya/go-user-crud/internal/application"
	"github.com/oksasatya/go-user-crud/internal/infrastructure/sqlstore"
	"github.com/oksasatya/go-user-crud/pkg/helpers"
)

// Container holds the components shared by a binary for its whole lifetime.
// Build it once in main and Close it on the way out.
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Session *sqlstore.Session
	Users   *application.Service
	Redis   *redis.Client
}

// New opens the database and wires the user service.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	session, err := sqlstore.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	repo := sqlstore.NewUserRepository(session)
	return &Container{
		Config:  cfg,
		Logger:  logger,
		Session: session,
		Users:   application.NewService(repo, logger),
	}, nil
}

// OpenRedis connects the rate-limit store when REDIS_ADDR is configured.
// It returns nil otherwise, which disables rate limiting.
func (c *Container) OpenRedis() *redis.Client {
	if c.Config.RedisAddr == "" {
		return nil
	}
	if c.Redis == nil {
		c.Redis = helpers.NewRedisClient(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	}
	return c.Redis
}

func (c *Container) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if err := c.Session.Close(); err != nil {
		c.Logger.WithError(err).Warn("closing database")
	}
}
