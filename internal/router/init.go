package router

import (
	"github.com/oksasatya/go-reorder-service/internal/container"
	handlers "github.com/oksasatya/go-reorder-service/internal/interface/http"
	"github.com/oksasatya/go-reorder-service/internal/interface/middleware"
	"github.com/oksasatya/go-reorder-service/internal/router/modules"
)

// InitModules builds the handlers from c and registers every feature module.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	gate := middleware.Gate(c.Tokens, c.Users, c.Logger)
	var allow middleware.AllowFunc
	if c.Config.RateLimitBypassPrivate {
		allow = middleware.AllowPrivateIP()
	}
	limits := modules.Limits{Redis: c.Infra.Redis, Allow: allow}

	r.Add(
		modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Logger, c.Cookies), limits),
		modules.NewUserModule(handlers.NewUserHandler(c.Users, c.Logger), gate, limits),
		modules.NewReorderModule(handlers.NewReorderHandler(c.Reorder, c.Logger), gate, limits),
	)
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limits))
	}
}
