package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/pkg/db/transactor"
)

// UserRepository is storage behavior for users
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, u *model.User) error
	DeleteByID(ctx context.Context, id string) error
}

type postgresUserRepository struct {
	e transactor.PgxWithinTransactionExecutor
}

// NewPostgresUserRepository builds postgres UserRepository
func NewPostgresUserRepository(e transactor.PgxWithinTransactionExecutor) UserRepository {
	return &postgresUserRepository{e: e}
}

const userColumns = "id, username, email, password_hash, role, phone, active, email_verified, created_at, updated_at"

func (r *postgresUserRepository) Create(ctx context.Context, u *model.User) error {
	q := `INSERT INTO users(id, username, email, password_hash, role, phone, active, email_verified, created_at, updated_at)
          VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.e.Executor(ctx).Exec(ctx, q,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.Phone, u.Active, u.EmailVerified, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE email = $1"
	row := r.e.Executor(ctx).QueryRow(ctx, q, email)
	return r.scanRow(row)
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	q := "SELECT " + userColumns + " FROM users WHERE id = $1"
	row := r.e.Executor(ctx).QueryRow(ctx, q, id)
	return r.scanRow(row)
}

func (r *postgresUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	q := "SELECT " + userColumns + " FROM users ORDER BY created_at DESC"

	rows, err := r.e.Executor(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Phone,
			&u.Active, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *postgresUserRepository) Update(ctx context.Context, u *model.User) error {
	q := `UPDATE users SET username = $2, email = $3, password_hash = $4, role = $5, phone = $6,
          active = $7, email_verified = $8, updated_at = $9 WHERE id = $1`
	_, err := r.e.Executor(ctx).Exec(ctx, q,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, u.Phone, u.Active, u.EmailVerified, u.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *postgresUserRepository) DeleteByID(ctx context.Context, id string) error {
	q := "DELETE FROM users WHERE id = $1"
	if _, err := r.e.Executor(ctx).Exec(ctx, q, id); err != nil {
		return err
	}
	return nil
}

func (r *postgresUserRepository) scanRow(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Phone,
		&u.Active, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
