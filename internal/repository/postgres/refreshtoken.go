package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const createToken = `-- name: CreateRefreshToken
INSERT INTO refresh_tokens (token, user_id, created_at, expires_at, revoked_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (token) DO NOTHING
RETURNING token, user_id, created_at, expires_at, revoked_at
`

// Create inserts the token row. On a token collision the existing row is
// left untouched and ErrRefreshTokenExists is returned.
func (r *RefreshTokenRepo) Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, createToken, token.Token, token.UserID, token.CreatedAt, token.ExpiresAt, token.RevokedAt)
	created, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case err == nil:
		return created, nil
	case errors.Is(err, pgx.ErrNoRows):
		// DO NOTHING swallowed the insert, so the token value is taken
		return created, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenExists)
	default:
		return created, fmt.Errorf("db error: %w", err)
	}
}

const getToken = `-- name: GetRefreshToken
SELECT token, user_id, created_at, expires_at, revoked_at
FROM refresh_tokens
WHERE token = $1
`

// GetByToken returns the row even if it is expired or revoked already
func (r *RefreshTokenRepo) GetByToken(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, getToken, tokenString)
	return collectRefreshToken(rows)
}

const revokeToken = `-- name: RevokeRefreshToken
UPDATE refresh_tokens
SET revoked_at = now()
WHERE token = $1
RETURNING token, user_id, created_at, expires_at, revoked_at
`

// Revoke sets revoked_at. The store overwrites an existing timestamp;
// rejecting re-revocation is the business layer's job.
func (r *RefreshTokenRepo) Revoke(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, revokeToken, tokenString)
	return collectRefreshToken(rows)
}

const deleteToken = `-- name: DeleteRefreshToken
DELETE FROM refresh_tokens
WHERE token = $1
RETURNING token, user_id, created_at, expires_at, revoked_at
`

func (r *RefreshTokenRepo) Delete(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, deleteToken, tokenString)
	return collectRefreshToken(rows)
}

func collectRefreshToken(rows pgx.Rows) (models.RefreshToken, error) {
	token, err := pgx.CollectOneRow(rows, rowToRefreshToken)

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}

func rowToRefreshToken(row pgx.CollectableRow) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(&t.Token, &t.UserID, &t.CreatedAt, &t.ExpiresAt, &t.RevokedAt)
	return t, err
}
