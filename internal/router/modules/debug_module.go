package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-reorder-service/internal/interface/middleware"
)

type DebugModule struct {
	Limits Limits
}

func NewDebugModule(limits Limits) *DebugModule { return &DebugModule{Limits: limits} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// expvar counters (reorder_products_created, reorder_products_deleted, reorder_adjustments)
	rl := m.Limits.perMinute(120, middleware.KeyByIP("debug"))
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
