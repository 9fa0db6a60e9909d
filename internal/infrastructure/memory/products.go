package memory

import (
	"context"
	"sort"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
	"github.com/oksasatya/go-reorder-service/internal/domain/repository"
)

type ReorderProductRepository struct{ s *Store }

func (r *ReorderProductRepository) Create(_ context.Context, p *entity.ReorderProduct) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.ListID == p.ListID && existing.SKU == p.SKU {
			return repository.ErrDuplicate
		}
	}
	p.ID = newID()
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	r.s.products[p.ID] = *p
	return nil
}

func (r *ReorderProductRepository) GetByID(_ context.Context, id string) (*entity.ReorderProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *ReorderProductRepository) GetByIDs(_ context.Context, ids []string) ([]entity.ReorderProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.ReorderProduct, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ReorderProductRepository) ListByUser(_ context.Context, userID string) ([]entity.ReorderProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.ReorderProduct, 0)
	for _, p := range r.s.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ReorderProductRepository) AdjustQuantity(_ context.Context, id string, adj entity.Adjustment) (*entity.ReorderProduct, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, false, repository.ErrNotFound
	}
	next, err := adj.Next(p.Quantity)
	if err != nil {
		return nil, false, err
	}
	if next == 0 {
		delete(r.s.products, id)
		return &p, true, nil
	}
	p.Quantity = next
	p.UpdatedAt = r.s.now()
	r.s.products[id] = p
	return &p, false, nil
}

func (r *ReorderProductRepository) Delete(_ context.Context, id string) (*entity.ReorderProduct, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(r.s.products, id)
	return &p, nil
}
