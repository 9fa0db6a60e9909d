package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-reorder-service/internal/interface/http"
	"github.com/oksasatya/go-reorder-service/internal/interface/middleware"
)

// AuthModule exposes the public session endpoints:
// POST /api/auth/signup, /api/auth/signin, /api/auth/refresh, /api/auth/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limits  Limits
}

func NewAuthModule(h *handlers.AuthHandler, limits Limits) *AuthModule {
	return &AuthModule{Handler: h, Limits: limits}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	credentials := m.Limits.perMinute(10, middleware.KeyByIP("auth"))
	refresh := m.Limits.perMinute(60, middleware.KeyByIP("refresh"))

	auth := rg.Group("/auth")
	auth.POST("/signup", credentials, m.Handler.SignUp)
	auth.POST("/signin", credentials, m.Handler.SignIn)
	auth.POST("/refresh", refresh, m.Handler.Refresh)
	auth.POST("/logout", m.Handler.Logout)
}
