package entity

import "time"

// ReorderList is a named, user-owned collection of reorder products.
// ProductIDs keeps membership in insertion order.
type ReorderList struct {
	ID         string
	UserID     string
	Name       string
	ProductIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OwnedBy reports whether userID owns the list.
func (l *ReorderList) OwnedBy(userID string) bool {
	return l != nil && l.UserID == userID
}

// HasProduct reports whether productID is a member of the list.
func (l *ReorderList) HasProduct(productID string) bool {
	for _, id := range l.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// ReorderListView is a list together with its loaded member products.
type ReorderListView struct {
	ReorderList
	Products []ReorderProduct
}

// FindSKU returns the member product carrying sku. Match is exact.
func (v *ReorderListView) FindSKU(sku string) (*ReorderProduct, bool) {
	for i := range v.Products {
		if v.Products[i].SKU == sku {
			return &v.Products[i], true
		}
	}
	return nil, false
}
