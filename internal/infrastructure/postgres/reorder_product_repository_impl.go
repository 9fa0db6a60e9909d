package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
	"github.com/oksasatya/go-reorder-service/internal/domain/repository"
)

const productColumns = `id::text, user_id::text, list_id::text, sku, name, quantity, created_at, updated_at`

// adjustQuantitySQL computes the next quantity under a row lock and then either
// updates the row or deletes it when the next quantity is zero. Both branches
// run inside one statement, so no zero-quantity row is ever visible.
const adjustQuantitySQL = `
WITH target AS (
	SELECT id,
		CASE $2::text
			WHEN 'increase' THEN quantity + 1
			WHEN 'decrease' THEN GREATEST(quantity - 1, 0)
			ELSE $3::int
		END AS next_quantity
	FROM reorder_products
	WHERE id = $1
	FOR UPDATE
), removed AS (
	DELETE FROM reorder_products p
	USING target t
	WHERE p.id = t.id AND t.next_quantity = 0
	RETURNING p.id, p.user_id, p.list_id, p.sku, p.name, p.quantity, p.created_at, p.updated_at
), updated AS (
	UPDATE reorder_products p
	SET quantity = t.next_quantity, updated_at = now()
	FROM target t
	WHERE p.id = t.id AND t.next_quantity > 0
	RETURNING p.id, p.user_id, p.list_id, p.sku, p.name, p.quantity, p.created_at, p.updated_at
)
SELECT ` + productColumns + `, false AS deleted FROM updated
UNION ALL
SELECT ` + productColumns + `, true AS deleted FROM removed`

type ReorderProductRepository struct {
	db DBTX
}

func NewReorderProductRepository(db DBTX) *ReorderProductRepository {
	return &ReorderProductRepository{db: db}
}

func scanProduct(row pgx.Row, extra ...any) (*entity.ReorderProduct, error) {
	p := &entity.ReorderProduct{}
	dest := append([]any{&p.ID, &p.UserID, &p.ListID, &p.SKU, &p.Name, &p.Quantity, &p.CreatedAt, &p.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ReorderProductRepository) Create(ctx context.Context, p *entity.ReorderProduct) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO reorder_products (user_id, list_id, sku, name, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns, p.UserID, p.ListID, p.SKU, p.Name, p.Quantity)
	created, err := scanProduct(row)
	if err != nil {
		return mapError(err)
	}
	*p = *created
	return nil
}

func (r *ReorderProductRepository) GetByID(ctx context.Context, id string) (*entity.ReorderProduct, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM reorder_products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *ReorderProductRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.ReorderProduct, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return []entity.ReorderProduct{}, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM reorder_products
		WHERE id = ANY($1::text[]::uuid[])
	`, valid)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	byID := make(map[string]entity.ReorderProduct, len(valid))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError(err)
		}
		byID[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	out := make([]entity.ReorderProduct, 0, len(byID))
	for _, id := range valid {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ReorderProductRepository) ListByUser(ctx context.Context, userID string) ([]entity.ReorderProduct, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+`
		FROM reorder_products
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.ReorderProduct, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *ReorderProductRepository) AdjustQuantity(ctx context.Context, id string, adj entity.Adjustment) (*entity.ReorderProduct, bool, error) {
	if err := adj.Validate(); err != nil {
		return nil, false, err
	}
	target := 0
	if adj.Quantity != nil {
		target = *adj.Quantity
	}

	var deleted bool
	p, err := scanProduct(r.db.QueryRow(ctx, adjustQuantitySQL, id, string(adj.Type), target), &deleted)
	if err != nil {
		return nil, false, mapError(err)
	}
	return p, deleted, nil
}

func (r *ReorderProductRepository) Delete(ctx context.Context, id string) (*entity.ReorderProduct, error) {
	row := r.db.QueryRow(ctx, `DELETE FROM reorder_products WHERE id = $1 RETURNING `+productColumns, id)
	p, err := scanProduct(row)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

var _ repository.ReorderProductRepository = (*ReorderProductRepository)(nil)
