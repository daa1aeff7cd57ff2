package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/pkg/db/transactor"
)

// CategoryRepository is storage behavior for categories
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context, onlyActive bool) ([]*model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	DeleteByID(ctx context.Context, id string) error
}

type postgresCategoryRepository struct {
	e transactor.PgxWithinTransactionExecutor
}

// NewPostgresCategoryRepository builds postgres CategoryRepository
func NewPostgresCategoryRepository(e transactor.PgxWithinTransactionExecutor) CategoryRepository {
	return &postgresCategoryRepository{e: e}
}

const categoryColumns = "id, parent_id, name, slug, image_url, active, created_at, updated_at"

func (r *postgresCategoryRepository) Create(ctx context.Context, c *model.Category) error {
	q := `INSERT INTO categories(id, parent_id, name, slug, image_url, active, created_at, updated_at)
          VALUES($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.e.Executor(ctx).Exec(ctx, q, c.ID, c.ParentID, c.Name, c.Slug, c.ImageURL, c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresCategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	q := "SELECT " + categoryColumns + " FROM categories WHERE id = $1"

	var c model.Category
	err := r.e.Executor(ctx).QueryRow(ctx, q, id).Scan(&c.ID, &c.ParentID, &c.Name, &c.Slug, &c.ImageURL, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// FindAll returns categories parents first so clients can rebuild the tree
// in a single pass
func (r *postgresCategoryRepository) FindAll(ctx context.Context, onlyActive bool) ([]*model.Category, error) {
	q := "SELECT " + categoryColumns + " FROM categories"
	if onlyActive {
		q += " WHERE active"
	}
	q += " ORDER BY parent_id ASC NULLS FIRST, created_at ASC"

	rows, err := r.e.Executor(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Name, &c.Slug, &c.ImageURL, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *postgresCategoryRepository) Update(ctx context.Context, c *model.Category) error {
	q := `UPDATE categories SET parent_id = $2, name = $3, slug = $4, image_url = $5, active = $6, updated_at = $7 WHERE id = $1`
	_, err := r.e.Executor(ctx).Exec(ctx, q, c.ID, c.ParentID, c.Name, c.Slug, c.ImageURL, c.Active, c.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresCategoryRepository) DeleteByID(ctx context.Context, id string) error {
	q := "DELETE FROM categories WHERE id = $1"
	if _, err := r.e.Executor(ctx).Exec(ctx, q, id); err != nil {
		return err
	}
	return nil
}
