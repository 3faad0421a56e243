package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ahm4dd/subhub/internal/models"
)

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If a user with the same email exists has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get user by id or email
	// If the user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// List all users, admin surface only
	ListUsers(ctx context.Context) ([]models.User, error)
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	// Create token
	// Insert-or-ignore semantics: if a row with the same token value exists
	// the row is left untouched and apperrors.ErrRefreshTokenExists is returned
	Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// Return the token even if it is expired or revoked already
	// If no row matches must return apperrors.ErrRefreshTokenNotFound
	GetByToken(ctx context.Context, token string) (models.RefreshToken, error)

	// Set revoked_at on the row. The store overwrites an existing timestamp;
	// callers that must treat re-revocation as an error check RevokedAt first.
	// If no row matches must return apperrors.ErrRefreshTokenNotFound
	Revoke(ctx context.Context, token string) (models.RefreshToken, error)

	// Hard delete, cleanup paths only
	Delete(ctx context.Context, token string) (models.RefreshToken, error)
}

// Subscription repository interface
type SubscriptionRepo interface {
	Create(ctx context.Context, sub models.Subscription) (models.Subscription, error)

	// If the subscription not found must return apperrors.ErrSubscriptionNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.Subscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error)
	Update(ctx context.Context, sub models.Subscription) (models.Subscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Storage aggregates all repositories over one backing store
type Storage interface {
	Users() UserRepo
	RefreshTokens() RefreshTokenRepo
	Subscriptions() SubscriptionRepo
}
