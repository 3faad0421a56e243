package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/models"
)

type RefreshTokenRepo struct {
	locker

	tokens map[string]models.RefreshToken
}

// Create keeps insert-or-ignore semantics: an existing row stays
// untouched and the caller gets ErrRefreshTokenExists
func (r *RefreshTokenRepo) Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	var err error

	r.withLock(func() {
		if _, taken := r.tokens[token.Token]; taken {
			err = fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenExists)
			return
		}
		r.tokens[token.Token] = token
	})

	return token, err
}

func (r *RefreshTokenRepo) GetByToken(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	var token models.RefreshToken
	var err error

	r.withLock(func() {
		t, ok := r.tokens[tokenString]
		if !ok {
			err = fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
			return
		}
		token = t
	})

	return token, err
}

// Revoke overwrites revoked_at unconditionally, matching the postgres store
func (r *RefreshTokenRepo) Revoke(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	var token models.RefreshToken
	var err error

	r.withLock(func() {
		t, ok := r.tokens[tokenString]
		if !ok {
			err = fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
			return
		}

		now := time.Now()
		t.RevokedAt = &now
		r.tokens[tokenString] = t
		token = t
	})

	return token, err
}

func (r *RefreshTokenRepo) Delete(ctx context.Context, tokenString string) (models.RefreshToken, error) {
	var token models.RefreshToken
	var err error

	r.withLock(func() {
		t, ok := r.tokens[tokenString]
		if !ok {
			err = fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
			return
		}
		delete(r.tokens, tokenString)
		token = t
	})

	return token, err
}
