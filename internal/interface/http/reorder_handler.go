package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-reorder-service/internal/application"
	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
	"github.com/oksasatya/go-reorder-service/pkg/response"
)

type ReorderHandler struct {
	Svc    *application.ReorderService
	Logger *logrus.Logger
}

func NewReorderHandler(svc *application.ReorderService, logger *logrus.Logger) *ReorderHandler {
	return &ReorderHandler{Svc: svc, Logger: logger}
}

type listNameRequest struct {
	Name string `json:"name" binding:"required,listname"`
}

type addProductRequest struct {
	SKU      string `json:"sku" binding:"required,sku"`
	Name     string `json:"name" binding:"required,max=200"`
	Quantity int    `json:"quantity" binding:"required,min=1,max=2147483647"`
}

// adjustRequest keeps quantity raw so that a non-integer value is reported as
// an invalid adjustment rather than a bad payload.
type adjustRequest struct {
	Type     string          `json:"type" binding:"required"`
	Quantity json.RawMessage `json:"quantity"`
}

func (r adjustRequest) toAdjustment() (entity.Adjustment, error) {
	adj := entity.Adjustment{Type: entity.AdjustmentType(r.Type)}
	if len(r.Quantity) == 0 || bytes.Equal(r.Quantity, []byte("null")) {
		return adj, nil
	}
	var q int
	if err := json.Unmarshal(r.Quantity, &q); err != nil {
		return adj, fmt.Errorf("%w: quantity must be an integer", application.ErrInvalidAdjustment)
	}
	adj.Quantity = &q
	return adj, nil
}

// CreateList POST /api/reorder-lists
func (h *ReorderHandler) CreateList(c *gin.Context) {
	var req listNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	l, err := h.Svc.CreateList(c.Request.Context(), currentUserID(c), req.Name)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toList(*l), "list created", nil)
}

// ListLists GET /api/reorder-lists
func (h *ReorderHandler) ListLists(c *gin.Context) {
	lists, err := h.Svc.ListLists(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	out := make([]listResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, toList(l))
	}
	response.Success(c, http.StatusOK, out, "lists", gin.H{"count": len(out)})
}

// GetList GET /api/reorder-lists/:id
func (h *ReorderHandler) GetList(c *gin.Context) {
	v, err := h.Svc.GetList(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toListView(v), "list", nil)
}

// RenameList PATCH /api/reorder-lists/:id
func (h *ReorderHandler) RenameList(c *gin.Context) {
	var req listNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	l, err := h.Svc.RenameList(c.Request.Context(), currentUserID(c), c.Param("id"), req.Name)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toList(*l), "list renamed", nil)
}

// DeleteList DELETE /api/reorder-lists/:id
func (h *ReorderHandler) DeleteList(c *gin.Context) {
	if err := h.Svc.DeleteList(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

// AddProduct POST /api/reorder-lists/:id/products
func (h *ReorderHandler) AddProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	v, err := h.Svc.AddOrBumpProduct(c.Request.Context(), currentUserID(c), c.Param("id"), application.AddProductInput{
		SKU:      req.SKU,
		Name:     req.Name,
		Quantity: req.Quantity,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toListView(v), "product added", nil)
}

// ExportList POST /api/reorder-lists/:id/export
func (h *ReorderHandler) ExportList(c *gin.Context) {
	res, err := h.Svc.ExportList(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, res, "list exported", nil)
}

// AdjustQuantity PATCH /api/reorder-products/:id/quantity
func (h *ReorderHandler) AdjustQuantity(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	adj, err := req.toAdjustment()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	res, err := h.Svc.AdjustProduct(c.Request.Context(), currentUserID(c), c.Param("id"), adj)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toAdjustment(res), "quantity "+string(res.Action), nil)
}

// DeleteProduct DELETE /api/reorder-products/:id
func (h *ReorderHandler) DeleteProduct(c *gin.Context) {
	if err := h.Svc.DeleteProduct(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

// SearchProducts GET /api/reorder-products/search?q=&size=
func (h *ReorderHandler) SearchProducts(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	found, err := h.Svc.SearchProducts(c.Request.Context(), currentUserID(c), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toProducts(found), "search results", gin.H{"count": len(found)})
}
