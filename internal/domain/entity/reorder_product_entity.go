package entity

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidAdjustment is returned for unknown adjustment kinds, for set
// requests without a target in [0, MaxQuantity] and for increases past
// MaxQuantity.
var ErrInvalidAdjustment = errors.New("invalid adjustment")

// MaxQuantity is the largest quantity a product can hold (a Postgres INTEGER).
const MaxQuantity = math.MaxInt32

// ReorderProduct is one SKU entry of a reorder list. A persisted product always
// has Quantity >= 1; reaching zero removes it. UserID is fixed at creation, so
// ownership survives the deletion of the list.
type ReorderProduct struct {
	ID        string
	UserID    string
	ListID    string
	SKU       string
	Name      string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy reports whether userID owns the product.
func (p *ReorderProduct) OwnedBy(userID string) bool {
	return p != nil && p.UserID == userID
}

type AdjustmentType string

const (
	AdjustIncrease AdjustmentType = "increase"
	AdjustDecrease AdjustmentType = "decrease"
	AdjustSet      AdjustmentType = "set"
)

// Adjustment is a quantity change request. Quantity is only read for set.
type Adjustment struct {
	Type     AdjustmentType
	Quantity *int
}

func Increase() Adjustment { return Adjustment{Type: AdjustIncrease} }
func Decrease() Adjustment { return Adjustment{Type: AdjustDecrease} }
func SetTo(q int) Adjustment {
	return Adjustment{Type: AdjustSet, Quantity: &q}
}

// Validate checks the adjustment kind and, for set, the target quantity.
func (a Adjustment) Validate() error {
	switch a.Type {
	case AdjustIncrease, AdjustDecrease:
		return nil
	case AdjustSet:
		if a.Quantity == nil || *a.Quantity < 0 || *a.Quantity > MaxQuantity {
			return ErrInvalidAdjustment
		}
		return nil
	default:
		return ErrInvalidAdjustment
	}
}

// Next returns the quantity that results from applying a to current.
// The result is never negative; zero means the product must be removed.
func (a Adjustment) Next(current int) (int, error) {
	if err := a.Validate(); err != nil {
		return current, err
	}
	switch a.Type {
	case AdjustIncrease:
		if current >= MaxQuantity {
			return current, ErrInvalidAdjustment
		}
		return current + 1, nil
	case AdjustDecrease:
		return max(0, current-1), nil
	default:
		return *a.Quantity, nil
	}
}

// AdjustmentAction discriminates the outcome of an adjustment.
type AdjustmentAction string

const (
	ActionUpdated AdjustmentAction = "updated"
	ActionDeleted AdjustmentAction = "deleted"
)

// AdjustmentResult carries the product after the change. Product is the last
// known state when Action is ActionDeleted.
type AdjustmentResult struct {
	Action  AdjustmentAction
	Product *ReorderProduct
}
