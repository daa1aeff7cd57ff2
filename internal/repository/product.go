package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"

	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/pkg/db/transactor"
)

// ProductFilter narrows product listing
type ProductFilter struct {
	OnlyActive bool
	CategoryID *string
}

// ProductRepository is storage behavior for products. Deletion is soft,
// removed products keep their rows with deleted_at set.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	SoftDeleteByID(ctx context.Context, id string, at time.Time) error
}

type postgresProductRepository struct {
	e transactor.PgxWithinTransactionExecutor
}

// NewPostgresProductRepository builds postgres ProductRepository
func NewPostgresProductRepository(e transactor.PgxWithinTransactionExecutor) ProductRepository {
	return &postgresProductRepository{e: e}
}

const productColumns = "id, category_id, name, slug, sku, description, price, stock_quantity, image_url, active, deleted_at, created_at, updated_at"

func (r *postgresProductRepository) Create(ctx context.Context, p *model.Product) error {
	q := `INSERT INTO products(id, category_id, name, slug, sku, description, price, stock_quantity, image_url, active, created_at, updated_at)
          VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.e.Executor(ctx).Exec(ctx, q,
		p.ID, p.CategoryID, p.Name, p.Slug, p.SKU, p.Description, p.Price, p.StockQuantity, p.ImageURL, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	q := "SELECT " + productColumns + " FROM products WHERE id = $1 AND deleted_at IS NULL"

	var p model.Product
	err := r.e.Executor(ctx).QueryRow(ctx, q, id).Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.SKU,
		&p.Description, &p.Price, &p.StockQuantity, &p.ImageURL, &p.Active, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) FindAll(ctx context.Context, filter ProductFilter) ([]*model.Product, error) {
	q := "SELECT " + productColumns + " FROM products WHERE deleted_at IS NULL"
	args := make([]any, 0, 1)

	if filter.OnlyActive {
		q += " AND active"
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		q += " AND category_id = $1"
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.e.Executor(ctx).Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Slug, &p.SKU, &p.Description, &p.Price,
			&p.StockQuantity, &p.ImageURL, &p.Active, &p.DeletedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *postgresProductRepository) Update(ctx context.Context, p *model.Product) error {
	q := `UPDATE products SET category_id = $2, name = $3, slug = $4, sku = $5, description = $6, price = $7,
          stock_quantity = $8, image_url = $9, active = $10, updated_at = $11 WHERE id = $1 AND deleted_at IS NULL`
	_, err := r.e.Executor(ctx).Exec(ctx, q,
		p.ID, p.CategoryID, p.Name, p.Slug, p.SKU, p.Description, p.Price, p.StockQuantity, p.ImageURL, p.Active, p.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresProductRepository) SoftDeleteByID(ctx context.Context, id string, at time.Time) error {
	q := "UPDATE products SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL"
	if _, err := r.e.Executor(ctx).Exec(ctx, q, id, at); err != nil {
		return err
	}
	return nil
}
