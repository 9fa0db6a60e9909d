package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-reorder-service/internal/interface/http"
	"github.com/oksasatya/go-reorder-service/internal/interface/middleware"
)

// UserModule serves the caller's profile: GET/PUT /api/profile
type UserModule struct {
	Handler *handlers.UserHandler
	Gate    gin.HandlerFunc
	Limits  Limits
}

func NewUserModule(h *handlers.UserHandler, gate gin.HandlerFunc, limits Limits) *UserModule {
	return &UserModule{Handler: h, Gate: gate, Limits: limits}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/profile")
	auth.Use(m.Gate, m.Limits.perMinute(120, middleware.KeyByUserID()))
	{
		auth.GET("", m.Handler.GetProfile)
		auth.PUT("", m.Handler.UpdateProfile)
	}
}
