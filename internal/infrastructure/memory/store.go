// Package memory is a process-local store used for tests and STORE_DRIVER=memory.
// Every method holds the store lock for its whole duration, which gives the
// same per-document atomicity the Postgres repositories rely on.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
	"github.com/oksasatya/go-reorder-service/internal/domain/repository"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]entity.User
	lists    map[string]entity.ReorderList
	products map[string]entity.ReorderProduct
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:    map[string]entity.User{},
		lists:    map[string]entity.ReorderList{},
		products: map[string]entity.ReorderProduct{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserRepository                     { return &UserRepository{s: s} }
func (s *Store) ReorderLists() *ReorderListRepository       { return &ReorderListRepository{s: s} }
func (s *Store) ReorderProducts() *ReorderProductRepository { return &ReorderProductRepository{s: s} }

var (
	_ repository.UserRepository           = (*UserRepository)(nil)
	_ repository.ReorderListRepository    = (*ReorderListRepository)(nil)
	_ repository.ReorderProductRepository = (*ReorderProductRepository)(nil)
)

func newID() string { return uuid.NewString() }
