package repository

import (
	"context"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
)

// ReorderProductRepository persists reorder products. (ListID, SKU) is unique;
// violations return ErrDuplicate.
type ReorderProductRepository interface {
	Create(ctx context.Context, p *entity.ReorderProduct) error
	GetByID(ctx context.Context, id string) (*entity.ReorderProduct, error)
	// GetByIDs returns the products that still exist, in the order of ids.
	GetByIDs(ctx context.Context, ids []string) ([]entity.ReorderProduct, error)
	// ListByUser returns every product owned by userID, including products
	// whose list was deleted, oldest first.
	ListByUser(ctx context.Context, userID string) ([]entity.ReorderProduct, error)
	// AdjustQuantity applies adj as a single atomic write. When the resulting
	// quantity is zero the record is deleted in the same write and deleted is
	// true; the returned product then holds the last stored state.
	AdjustQuantity(ctx context.Context, id string, adj entity.Adjustment) (p *entity.ReorderProduct, deleted bool, err error)
	Delete(ctx context.Context, id string) (*entity.ReorderProduct, error)
}
