package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/pkg/db/transactor"
)

// AddressRepository is storage behavior for user addresses. ClearDefault
// and Update/Create run inside one transaction when the default flag moves,
// so at most one default exists per user and address type.
type AddressRepository interface {
	Create(ctx context.Context, a *model.Address) error
	FindByID(ctx context.Context, id string) (*model.Address, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.Address, error)
	Update(ctx context.Context, a *model.Address) error
	DeleteByID(ctx context.Context, id string) error
	ClearDefault(ctx context.Context, userID string, addrType string) error
}

type postgresAddressRepository struct {
	e transactor.PgxWithinTransactionExecutor
}

// NewPostgresAddressRepository builds postgres AddressRepository
func NewPostgresAddressRepository(e transactor.PgxWithinTransactionExecutor) AddressRepository {
	return &postgresAddressRepository{e: e}
}

const addressColumns = "id, user_id, recipient_name, phone, line1, line2, sub_district, district, province, zip_code, is_default, type, created_at, updated_at"

func (r *postgresAddressRepository) Create(ctx context.Context, a *model.Address) error {
	q := `INSERT INTO addresses(id, user_id, recipient_name, phone, line1, line2, sub_district, district, province, zip_code, is_default, type, created_at, updated_at)
          VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.e.Executor(ctx).Exec(ctx, q, a.ID, a.UserID, a.RecipientName, a.Phone, a.Line1, a.Line2,
		a.SubDistrict, a.District, a.Province, a.ZipCode, a.Default, a.Type, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresAddressRepository) FindByID(ctx context.Context, id string) (*model.Address, error) {
	q := "SELECT " + addressColumns + " FROM addresses WHERE id = $1"

	var a model.Address
	err := r.e.Executor(ctx).QueryRow(ctx, q, id).Scan(&a.ID, &a.UserID, &a.RecipientName, &a.Phone, &a.Line1,
		&a.Line2, &a.SubDistrict, &a.District, &a.Province, &a.ZipCode, &a.Default, &a.Type, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *postgresAddressRepository) FindByUserID(ctx context.Context, userID string) ([]*model.Address, error) {
	q := "SELECT " + addressColumns + " FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC"

	rows, err := r.e.Executor(ctx).Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addresses := make([]*model.Address, 0)
	for rows.Next() {
		var a model.Address
		if err := rows.Scan(&a.ID, &a.UserID, &a.RecipientName, &a.Phone, &a.Line1, &a.Line2, &a.SubDistrict,
			&a.District, &a.Province, &a.ZipCode, &a.Default, &a.Type, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		addresses = append(addresses, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return addresses, nil
}

func (r *postgresAddressRepository) Update(ctx context.Context, a *model.Address) error {
	q := `UPDATE addresses SET recipient_name = $2, phone = $3, line1 = $4, line2 = $5, sub_district = $6,
          district = $7, province = $8, zip_code = $9, is_default = $10, type = $11, updated_at = $12 WHERE id = $1`
	_, err := r.e.Executor(ctx).Exec(ctx, q, a.ID, a.RecipientName, a.Phone, a.Line1, a.Line2, a.SubDistrict,
		a.District, a.Province, a.ZipCode, a.Default, a.Type, a.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresAddressRepository) DeleteByID(ctx context.Context, id string) error {
	q := "DELETE FROM addresses WHERE id = $1"
	if _, err := r.e.Executor(ctx).Exec(ctx, q, id); err != nil {
		return err
	}
	return nil
}

func (r *postgresAddressRepository) ClearDefault(ctx context.Context, userID string, addrType string) error {
	q := "UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND type = $2 AND is_default"
	if _, err := r.e.Executor(ctx).Exec(ctx, q, userID, addrType); err != nil {
		return err
	}
	return nil
}
