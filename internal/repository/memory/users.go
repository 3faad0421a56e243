package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/models"
	"github.com/ahm4dd/subhub/internal/repository"
)

type UserRepo struct {
	locker

	byID    map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
}

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	var user models.User
	var err error

	r.withLock(func() {
		if _, taken := r.byEmail[arg.Email]; taken {
			err = fmt.Errorf("repo error: %w", apperrors.ErrUserAlreadyExists)
			return
		}

		now := time.Now()
		user = models.User{
			ID:           uuid.New(),
			Name:         arg.Name,
			Email:        arg.Email,
			PasswordHash: arg.PasswordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		r.byID[user.ID] = user
		r.byEmail[user.Email] = user.ID
	})

	return user, err
}

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	var err error

	r.withLock(func() {
		u, ok := r.byID[id]
		if !ok {
			err = fmt.Errorf("repo error: %w", apperrors.ErrUserNotFound)
			return
		}
		user = u
	})

	return user, err
}

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	var err error

	r.withLock(func() {
		id, ok := r.byEmail[email]
		if !ok {
			err = fmt.Errorf("repo error: %w", apperrors.ErrUserNotFound)
			return
		}
		user = r.byID[id]
	})

	return user, err
}

func (r *UserRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User

	r.withLock(func() {
		for _, u := range r.byID {
			users = append(users, u)
		}
	})

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}
