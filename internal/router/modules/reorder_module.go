package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-reorder-service/internal/interface/http"
	"github.com/oksasatya/go-reorder-service/internal/interface/middleware"
)

// ReorderModule wires the list and product routes. Everything here sits behind
// the gate and a per-user limiter of 120 req/min.
type ReorderModule struct {
	Handler *handlers.ReorderHandler
	Gate    gin.HandlerFunc
	Limits  Limits
}

func NewReorderModule(h *handlers.ReorderHandler, gate gin.HandlerFunc, limits Limits) *ReorderModule {
	return &ReorderModule{Handler: h, Gate: gate, Limits: limits}
}

func (m *ReorderModule) Register(rg *gin.RouterGroup) {
	perUser := m.Limits.perMinute(120, middleware.KeyByUserID())

	lists := rg.Group("/reorder-lists", m.Gate, perUser)
	{
		lists.POST("", m.Handler.CreateList)
		lists.GET("", m.Handler.ListLists)
		lists.GET("/:id", m.Handler.GetList)
		lists.PATCH("/:id", m.Handler.RenameList)
		lists.DELETE("/:id", m.Handler.DeleteList)
		lists.POST("/:id/products", m.Handler.AddProduct)
		lists.POST("/:id/export", m.Handler.ExportList)
	}

	products := rg.Group("/reorder-products", m.Gate, perUser)
	{
		products.GET("/search", m.Handler.SearchProducts)
		products.PATCH("/:id/quantity", m.Handler.AdjustQuantity)
		products.DELETE("/:id", m.Handler.DeleteProduct)
	}
}
