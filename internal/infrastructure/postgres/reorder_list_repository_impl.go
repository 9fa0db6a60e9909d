package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-reorder-service/internal/domain/entity"
	"github.com/oksasatya/go-reorder-service/internal/domain/repository"
)

const listColumns = `id::text, user_id::text, name, product_ids::text[], created_at, updated_at`

type ReorderListRepository struct {
	db DBTX
}

func NewReorderListRepository(db DBTX) *ReorderListRepository {
	return &ReorderListRepository{db: db}
}

func scanList(row pgx.Row) (*entity.ReorderList, error) {
	l := &entity.ReorderList{}
	if err := row.Scan(&l.ID, &l.UserID, &l.Name, &l.ProductIDs, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if l.ProductIDs == nil {
		l.ProductIDs = []string{}
	}
	return l, nil
}

func (r *ReorderListRepository) Create(ctx context.Context, l *entity.ReorderList) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO reorder_lists (user_id, name)
		VALUES ($1, $2)
		RETURNING `+listColumns, l.UserID, l.Name)

	created, err := scanList(row)
	if err != nil {
		return mapError(err)
	}
	*l = *created
	return nil
}

func (r *ReorderListRepository) GetByID(ctx context.Context, id string) (*entity.ReorderList, error) {
	row := r.db.QueryRow(ctx, `SELECT `+listColumns+` FROM reorder_lists WHERE id = $1`, id)
	l, err := scanList(row)
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (r *ReorderListRepository) ListByUser(ctx context.Context, userID string) ([]entity.ReorderList, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+listColumns+`
		FROM reorder_lists
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]entity.ReorderList, 0)
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, mapError(err)
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *ReorderListRepository) Rename(ctx context.Context, id, name string) (*entity.ReorderList, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE reorder_lists
		SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+listColumns, id, name)
	l, err := scanList(row)
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (r *ReorderListRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM reorder_lists WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReorderListRepository) AppendProduct(ctx context.Context, listID, productID string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE reorder_lists
		SET product_ids = array_append(product_ids, $2::uuid), updated_at = now()
		WHERE id = $1
	`, listID, productID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ReorderListRepository) PullProduct(ctx context.Context, productID string) (int64, error) {
	res, err := r.db.Exec(ctx, `
		UPDATE reorder_lists
		SET product_ids = array_remove(product_ids, $1::uuid), updated_at = now()
		WHERE $1::uuid = ANY(product_ids)
	`, productID)
	if err != nil {
		return 0, mapError(err)
	}
	return res.RowsAffected(), nil
}

var _ repository.ReorderListRepository = (*ReorderListRepository)(nil)
