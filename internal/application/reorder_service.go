package application

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
	repo "github.com/oksasatya/go-reorder-service/internal/domain/repository"
	"github.com/oksasatya/go-reorder-service/pkg/helpers"
)

var (
	productsCreated = expvar.NewInt("reorder_products_created")
	productsDeleted = expvar.NewInt("reorder_products_deleted")
	adjustments     = expvar.NewInt("reorder_adjustments")
)

// ProductIndexer mirrors reorder products into a search index.
type ProductIndexer interface {
	Index(ctx context.Context, userID string, p entity.ReorderProduct) error
	Remove(ctx context.Context, productID string) error
	Search(ctx context.Context, userID, query string, size int) ([]entity.ReorderProduct, error)
}

// ReorderService orchestrates reorder lists and the quantity state machine of
// their products. Every mutation of a product quantity goes through here.
type ReorderService struct {
	Lists    repo.ReorderListRepository
	Products repo.ReorderProductRepository
	Index    ProductIndexer // optional
	Exporter ObjectUploader // optional
	Logger   *logrus.Logger
}

func NewReorderService(lists repo.ReorderListRepository, products repo.ReorderProductRepository, logger *logrus.Logger) *ReorderService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &ReorderService{Lists: lists, Products: products, Logger: logger}
}

type AddProductInput struct {
	SKU      string
	Name     string
	Quantity int
}

func (s *ReorderService) CreateList(ctx context.Context, userID, name string) (*entity.ReorderList, error) {
	name, err := cleanListName(name)
	if err != nil {
		return nil, err
	}
	l := &entity.ReorderList{UserID: userID, Name: name, ProductIDs: []string{}}
	if err := s.Lists.Create(ctx, l); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("create list: %w", err)
	}
	return l, nil
}

// ListLists returns every list owned by userID; no lists is an empty slice.
func (s *ReorderService) ListLists(ctx context.Context, userID string) ([]entity.ReorderList, error) {
	lists, err := s.Lists.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	if lists == nil {
		lists = []entity.ReorderList{}
	}
	return lists, nil
}

func (s *ReorderService) GetList(ctx context.Context, userID, listID string) (*entity.ReorderListView, error) {
	l, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, l)
}

func (s *ReorderService) RenameList(ctx context.Context, userID, listID, name string) (*entity.ReorderList, error) {
	name, err := cleanListName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return nil, err
	}
	l, err := s.Lists.Rename(ctx, listID, name)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrDuplicateName
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rename list: %w", err)
	}
	return l, nil
}

// DeleteList removes the list record only. Member products are left in place.
func (s *ReorderService) DeleteList(ctx context.Context, userID, listID string) error {
	if _, err := s.ownedList(ctx, userID, listID); err != nil {
		return err
	}
	if err := s.Lists.Delete(ctx, listID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// AddOrBumpProduct adds a new SKU to the list with the requested quantity. If
// the SKU is already a member, the supplied name and quantity are ignored and
// the existing product is increased by exactly one.
func (s *ReorderService) AddOrBumpProduct(ctx context.Context, userID, listID string, in AddProductInput) (*entity.ReorderListView, error) {
	l, err := s.ownedList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}
	if in.SKU == "" {
		return nil, fmt.Errorf("%w: sku is required", ErrValidation)
	}
	v, err := s.view(ctx, l)
	if err != nil {
		return nil, err
	}

	if existing, ok := v.FindSKU(in.SKU); ok {
		if _, err := s.adjust(ctx, userID, existing.ID, entity.Increase()); err != nil {
			return nil, err
		}
		return s.reload(ctx, listID)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Quantity < 1 || in.Quantity > entity.MaxQuantity {
		return nil, fmt.Errorf("%w: quantity must be between 1 and %d", ErrValidation, entity.MaxQuantity)
	}
	p := &entity.ReorderProduct{UserID: userID, ListID: l.ID, SKU: in.SKU, Name: name, Quantity: in.Quantity}
	if err := s.Products.Create(ctx, p); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrDuplicateSKU
		case errors.Is(err, repo.ErrOutOfRange):
			return nil, fmt.Errorf("%w: quantity is out of range", ErrValidation)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	if err := s.Lists.AppendProduct(ctx, l.ID, p.ID); err != nil {
		// the list vanished between load and append; do not leave the product behind
		if _, derr := s.Products.Delete(ctx, p.ID); derr != nil {
			s.Logger.WithError(derr).WithField("product_id", p.ID).Warn("failed to remove unattached product")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("append product: %w", err)
	}
	productsCreated.Add(1)
	s.index(ctx, userID, *p)
	return s.reload(ctx, listID)
}

// AdjustProduct applies one quantity transition. Reaching zero deletes the
// product and pulls it from every list that references it.
func (s *ReorderService) AdjustProduct(ctx context.Context, userID, productID string, adj entity.Adjustment) (*entity.AdjustmentResult, error) {
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.ownedProduct(ctx, userID, productID); err != nil {
		return nil, err
	}
	return s.adjust(ctx, userID, productID, adj)
}

// DeleteProduct removes a product regardless of its quantity, with the same
// membership cleanup as a zero-quantity adjustment.
func (s *ReorderService) DeleteProduct(ctx context.Context, userID, productID string) error {
	if _, err := s.ownedProduct(ctx, userID, productID); err != nil {
		return err
	}
	p, err := s.Products.Delete(ctx, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.detach(ctx, p)
	return nil
}

// SearchProducts queries the product index. Without an index it falls back to
// an in-process scan of the caller's products.
func (s *ReorderService) SearchProducts(ctx context.Context, userID, query string, size int) ([]entity.ReorderProduct, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: q is required", ErrValidation)
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	if s.Index != nil {
		found, err := s.Index.Search(ctx, userID, query, size)
		if err != nil {
			return nil, fmt.Errorf("search products: %w", err)
		}
		return found, nil
	}

	products, err := s.Products.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	needle := strings.ToLower(query)
	out := make([]entity.ReorderProduct, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.SKU), needle) || strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
			if len(out) == size {
				break
			}
		}
	}
	return out, nil
}

func (s *ReorderService) adjust(ctx context.Context, userID, productID string, adj entity.Adjustment) (*entity.AdjustmentResult, error) {
	p, deleted, err := s.Products.AdjustQuantity(ctx, productID, adj)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, entity.ErrInvalidAdjustment):
			return nil, err
		case errors.Is(err, repo.ErrOutOfRange):
			return nil, fmt.Errorf("%w: quantity is out of range", entity.ErrInvalidAdjustment)
		}
		return nil, fmt.Errorf("adjust quantity: %w", err)
	}
	adjustments.Add(1)
	if deleted {
		s.detach(ctx, p)
		return &entity.AdjustmentResult{Action: entity.ActionDeleted, Product: p}, nil
	}
	s.index(ctx, userID, *p)
	return &entity.AdjustmentResult{Action: entity.ActionUpdated, Product: p}, nil
}

// detach pulls a deleted product from every list. It runs as a separate write
// after the delete; if it fails the reference dangles until the next cleanup
// of that list, and view() skips ids that no longer resolve.
func (s *ReorderService) detach(ctx context.Context, p *entity.ReorderProduct) {
	productsDeleted.Add(1)
	n, err := s.Lists.PullProduct(ctx, p.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID).Error("failed to pull deleted product from lists")
	} else {
		s.Logger.WithFields(logrus.Fields{"product_id": p.ID, "lists": n}).Debug("pulled deleted product from lists")
	}
	if s.Index != nil {
		if err := s.Index.Remove(ctx, p.ID); err != nil {
			s.Logger.WithError(err).WithField("product_id", p.ID).Warn("failed to remove product from index")
		}
	}
}

func (s *ReorderService) index(ctx context.Context, userID string, p entity.ReorderProduct) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, userID, p); err != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID).Warn("failed to index product")
	}
}

func (s *ReorderService) ownedList(ctx context.Context, userID, listID string) (*entity.ReorderList, error) {
	l, err := s.Lists.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load list: %w", err)
	}
	if !l.OwnedBy(userID) {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *ReorderService) ownedProduct(ctx context.Context, userID, productID string) (*entity.ReorderProduct, error) {
	p, err := s.Products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load product: %w", err)
	}
	if !p.OwnedBy(userID) {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *ReorderService) view(ctx context.Context, l *entity.ReorderList) (*entity.ReorderListView, error) {
	products, err := s.Products.GetByIDs(ctx, l.ProductIDs)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return &entity.ReorderListView{ReorderList: *l, Products: products}, nil
}

func (s *ReorderService) reload(ctx context.Context, listID string) (*entity.ReorderListView, error) {
	l, err := s.Lists.GetByID(ctx, listID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load list: %w", err)
	}
	return s.view(ctx, l)
}

func cleanListName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	return name, nil
}
