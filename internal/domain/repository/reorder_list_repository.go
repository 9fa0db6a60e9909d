package repository

import (
	"context"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
)

// ReorderListRepository persists reorder lists and their membership collection.
// Name uniqueness is scoped per user; violations return ErrDuplicate.
type ReorderListRepository interface {
	Create(ctx context.Context, l *entity.ReorderList) error
	GetByID(ctx context.Context, id string) (*entity.ReorderList, error)
	ListByUser(ctx context.Context, userID string) ([]entity.ReorderList, error)
	Rename(ctx context.Context, id, name string) (*entity.ReorderList, error)
	Delete(ctx context.Context, id string) error

	// AppendProduct adds productID to the end of the list membership.
	AppendProduct(ctx context.Context, listID, productID string) error
	// PullProduct removes productID from every list that references it and
	// returns the number of lists touched.
	PullProduct(ctx context.Context, productID string) (int64, error)
}
