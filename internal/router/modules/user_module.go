package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-user-crud/internal/interface/http"
	"github.com/oksasatya/go-user-crud/internal/interface/middleware"
)

// UserModule exposes the user CRUD routes under the given group (usually /api):
// GET /users, GET /users/:id, POST /users, PUT /users/:id, DELETE /users/:id
type UserModule struct {
	Handler   *handlers.UserHandler
	Redis     *redis.Client
	PerMinute int
}

func NewUserModule(h *handlers.UserHandler, rdb *redis.Client, perMinute int) *UserModule {
	return &UserModule{Handler: h, Redis: rdb, PerMinute: perMinute}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.RateLimit(m.Redis, m.PerMinute, time.Minute, middleware.KeyByIP(), nil))
	// writes get a tighter per-route bucket on top of the per-IP one
	writeLimiter := middleware.RateLimit(m.Redis, WriteLimit(m.PerMinute), time.Minute, middleware.KeyByIPAndPath(), nil)
	{
		users.GET("", m.Handler.List)
		users.GET("/:id", m.Handler.Get)
		users.POST("", writeLimiter, m.Handler.Create)
		users.PUT("/:id", writeLimiter, m.Handler.Update)
		users.DELETE("/:id", writeLimiter, m.Handler.Delete)
	}
}

// WriteLimit is a quarter of the read limit, at least 1 while limiting is enabled.
func WriteLimit(perMinute int) int {
	if perMinute <= 0 {
		return 0
	}
	if w := perMinute / 4; w > 0 {
		return w
	}
	return 1
}
