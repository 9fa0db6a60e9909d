package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestAdjustmentNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		adj     Adjustment
		current int
		want    int
		wantErr error
	}{
		{"increase", Increase(), 5, 6, nil},
		{"decrease", Decrease(), 5, 4, nil},
		{"decrease to zero", Decrease(), 1, 0, nil},
		{"decrease never negative", Decrease(), 0, 0, nil},
		{"set", SetTo(42), 5, 42, nil},
		{"set zero", SetTo(0), 5, 0, nil},
		{"set negative", SetTo(-1), 5, 5, ErrInvalidAdjustment},
		{"set max", SetTo(MaxQuantity), 5, MaxQuantity, nil},
		{"set above max", SetTo(MaxQuantity + 1), 5, 5, ErrInvalidAdjustment},
		{"increase at max", Increase(), MaxQuantity, MaxQuantity, ErrInvalidAdjustment},
		{"set without quantity", Adjustment{Type: AdjustSet}, 5, 5, ErrInvalidAdjustment},
		{"unknown type", Adjustment{Type: "double", Quantity: intPtr(3)}, 5, 5, ErrInvalidAdjustment},
		{"empty type", Adjustment{}, 5, 5, ErrInvalidAdjustment},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.adj.Next(tt.current)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdjustmentIncreaseIsMonotonic(t *testing.T) {
	t.Parallel()

	q := 1
	for i := 0; i < 1000; i++ {
		next, err := Increase().Next(q)
		require.NoError(t, err)
		require.Equal(t, q+1, next)
		q = next
	}
}

func TestReorderListView_FindSKU(t *testing.T) {
	t.Parallel()

	v := ReorderListView{Products: []ReorderProduct{
		{ID: "p1", SKU: "A1"},
		{ID: "p2", SKU: "b2"},
	}}
	p, ok := v.FindSKU("A1")
	require.True(t, ok)
	assert.Equal(t, "p1", p.ID)

	_, ok = v.FindSKU("a1")
	assert.False(t, ok, "sku match is case-sensitive")
	_, ok = v.FindSKU("B2")
	assert.False(t, ok)
}

func TestReorderList_Membership(t *testing.T) {
	t.Parallel()

	l := &ReorderList{UserID: "u1", ProductIDs: []string{"p1", "p2"}}
	assert.True(t, l.OwnedBy("u1"))
	assert.False(t, l.OwnedBy("u2"))
	assert.True(t, l.HasProduct("p2"))
	assert.False(t, l.HasProduct("p3"))

	var missing *ReorderList
	assert.False(t, missing.OwnedBy("u1"))
}

func TestReorderProduct_OwnedBy(t *testing.T) {
	t.Parallel()

	p := &ReorderProduct{UserID: "u1", ListID: "gone"}
	assert.True(t, p.OwnedBy("u1"))
	assert.False(t, p.OwnedBy("u2"))

	var missing *ReorderProduct
	assert.False(t, missing.OwnedBy("u1"))
}
