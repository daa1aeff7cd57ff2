package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/pkg/db/transactor"
)

// RefreshTokenRepository is durable storage for outstanding refresh
// credentials. Revoke is the concurrency primitive the rotation protocol
// is built on: it must report whether a row was actually removed so two
// requests racing over the same token resolve to exactly one winner.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindValid(ctx context.Context, token string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, token string) (bool, error)
	RevokeAllByUserID(ctx context.Context, userID string) error
	FindByUserID(ctx context.Context, userID string) ([]*model.RefreshToken, error)
	DeleteTokens(ctx context.Context, tokens []string) error
	SweepExpired(ctx context.Context) (int64, error)
}

type postgresRefreshTokenRepository struct {
	e transactor.PgxWithinTransactionExecutor
}

// NewPostgresRefreshTokenRepository builds postgres RefreshTokenRepository
func NewPostgresRefreshTokenRepository(e transactor.PgxWithinTransactionExecutor) RefreshTokenRepository {
	return &postgresRefreshTokenRepository{e: e}
}

func (r *postgresRefreshTokenRepository) Create(ctx context.Context, tkn *model.RefreshToken) error {
	q := "INSERT INTO refresh_tokens(token, user_id, expires_at, created_at) VALUES($1, $2, $3, $4)"
	if _, err := r.e.Executor(ctx).Exec(ctx, q, tkn.Token, tkn.UserID, tkn.ExpiresAt, tkn.CreatedAt); err != nil {
		return err
	}
	return nil
}

// FindValid treats an expired-but-present row identically to an absent one
func (r *postgresRefreshTokenRepository) FindValid(ctx context.Context, token string) (*model.RefreshToken, error) {
	q := "SELECT token, user_id, expires_at, created_at FROM refresh_tokens WHERE token = $1 AND expires_at > now()"

	var tkn model.RefreshToken
	err := r.e.Executor(ctx).QueryRow(ctx, q, token).Scan(&tkn.Token, &tkn.UserID, &tkn.ExpiresAt, &tkn.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &tkn, nil
}

// Revoke deletes the row in a single statement and reports whether it was
// still there. A read-then-delete would reopen the race this closes.
func (r *postgresRefreshTokenRepository) Revoke(ctx context.Context, token string) (bool, error) {
	q := "DELETE FROM refresh_tokens WHERE token = $1"
	ct, err := r.e.Executor(ctx).Exec(ctx, q, token)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *postgresRefreshTokenRepository) RevokeAllByUserID(ctx context.Context, userID string) error {
	q := "DELETE FROM refresh_tokens WHERE user_id = $1"
	if _, err := r.e.Executor(ctx).Exec(ctx, q, userID); err != nil {
		return err
	}
	return nil
}

// FindByUserID returns user tokens newest first, used by quota trimming
func (r *postgresRefreshTokenRepository) FindByUserID(ctx context.Context, userID string) ([]*model.RefreshToken, error) {
	q := "SELECT token, user_id, expires_at, created_at FROM refresh_tokens WHERE user_id = $1 ORDER BY created_at DESC"

	rows, err := r.e.Executor(ctx).Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tokens := make([]*model.RefreshToken, 0)
	for rows.Next() {
		var tkn model.RefreshToken
		if err := rows.Scan(&tkn.Token, &tkn.UserID, &tkn.ExpiresAt, &tkn.CreatedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, &tkn)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tokens, nil
}

func (r *postgresRefreshTokenRepository) DeleteTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}

	q := "DELETE FROM refresh_tokens WHERE token = ANY($1)"
	if _, err := r.e.Executor(ctx).Exec(ctx, q, tokens); err != nil {
		return err
	}
	return nil
}

// SweepExpired removes rows whose expiry is strictly in the past, a row
// expiring exactly now is retained
func (r *postgresRefreshTokenRepository) SweepExpired(ctx context.Context) (int64, error) {
	q := "DELETE FROM refresh_tokens WHERE expires_at < now()"
	ct, err := r.e.Executor(ctx).Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
