package router

import (
	"github.com/oksasatya/go-user-crud/internal/container"
	handlers "github.com/oksasatya/go-user-crud/internal/interface/http"
	"github.com/oksasatya/go-user-crud/internal/router/modules"
)

// InitModules wires every feature module from the container and adds it to the registry.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	userHandler := handlers.NewUserHandler(c.Users, c.Logger)
	r.Add(modules.NewUserModule(userHandler, c.OpenRedis(), c.Config.RateLimitPerMinute))

	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.OpenRedis()))
	}
}
