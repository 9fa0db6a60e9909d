package handlers

import (
	"time"

	"github.com/oksasatya/go-reorder-service/internal/application"
	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
)

type tokensResponse struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

func toTokens(p application.TokenPair) tokensResponse {
	return tokensResponse{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		AccessExpiresAt:  p.AccessTokenExpiry,
		RefreshExpiresAt: p.RefreshTokenExpiry,
	}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUser(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

type productResponse struct {
	ID        string    `json:"id"`
	ListID    string    `json:"listId"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toProduct(p entity.ReorderProduct) productResponse {
	return productResponse{
		ID:        p.ID,
		ListID:    p.ListID,
		SKU:       p.SKU,
		Name:      p.Name,
		Quantity:  p.Quantity,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toProducts(ps []entity.ReorderProduct) []productResponse {
	out := make([]productResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toProduct(p))
	}
	return out
}

type listResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ProductIDs []string  `json:"productIds"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type listViewResponse struct {
	listResponse
	Products []productResponse `json:"products"`
}

func toList(l entity.ReorderList) listResponse {
	ids := l.ProductIDs
	if ids == nil {
		ids = []string{}
	}
	return listResponse{ID: l.ID, Name: l.Name, ProductIDs: ids, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt}
}

func toListView(v *entity.ReorderListView) listViewResponse {
	return listViewResponse{listResponse: toList(v.ReorderList), Products: toProducts(v.Products)}
}

type adjustmentResponse struct {
	Action  entity.AdjustmentAction `json:"action"`
	Product *productResponse        `json:"product,omitempty"`
}

// Product is omitted once the product has been deleted.
func toAdjustment(r *entity.AdjustmentResult) adjustmentResponse {
	out := adjustmentResponse{Action: r.Action}
	if r.Action == entity.ActionUpdated && r.Product != nil {
		p := toProduct(*r.Product)
		out.Product = &p
	}
	return out
}
