package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
	"github.com/oksasatya/go-reorder-service/internal/domain/repository"
)

type ReorderListRepository struct{ s *Store }

func (r *ReorderListRepository) nameTaken(userID, name, exceptID string) bool {
	for id, l := range r.s.lists {
		if id != exceptID && l.UserID == userID && l.Name == name {
			return true
		}
	}
	return false
}

func (r *ReorderListRepository) Create(_ context.Context, l *entity.ReorderList) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(l.UserID, l.Name, "") {
		return repository.ErrDuplicate
	}
	l.ID = newID()
	l.CreatedAt = r.s.now()
	l.UpdatedAt = l.CreatedAt
	l.ProductIDs = slices.Clone(l.ProductIDs)
	r.s.lists[l.ID] = copyList(*l)
	return nil
}

func (r *ReorderListRepository) GetByID(_ context.Context, id string) (*entity.ReorderList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lists[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := copyList(l)
	return &out, nil
}

func (r *ReorderListRepository) ListByUser(_ context.Context, userID string) ([]entity.ReorderList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entity.ReorderList, 0)
	for _, l := range r.s.lists {
		if l.UserID == userID {
			out = append(out, copyList(l))
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

func (r *ReorderListRepository) Rename(_ context.Context, id, name string) (*entity.ReorderList, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lists[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if r.nameTaken(l.UserID, name, id) {
		return nil, repository.ErrDuplicate
	}
	l.Name = name
	l.UpdatedAt = r.s.now()
	r.s.lists[id] = l
	out := copyList(l)
	return &out, nil
}

func (r *ReorderListRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lists[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.lists, id)
	return nil
}

func (r *ReorderListRepository) AppendProduct(_ context.Context, listID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lists[listID]
	if !ok {
		return repository.ErrNotFound
	}
	l.ProductIDs = append(slices.Clone(l.ProductIDs), productID)
	l.UpdatedAt = r.s.now()
	r.s.lists[listID] = l
	return nil
}

func (r *ReorderListRepository) PullProduct(_ context.Context, productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, l := range r.s.lists {
		if !l.HasProduct(productID) {
			continue
		}
		l.ProductIDs = slices.DeleteFunc(slices.Clone(l.ProductIDs), func(p string) bool { return p == productID })
		l.UpdatedAt = r.s.now()
		r.s.lists[id] = l
		n++
	}
	return n, nil
}

func copyList(l entity.ReorderList) entity.ReorderList {
	l.ProductIDs = slices.Clone(l.ProductIDs)
	if l.ProductIDs == nil {
		l.ProductIDs = []string{}
	}
	return l
}
