// Package memory holds mutex guarded map implementations of the
// repository interfaces. They back unit tests and serve as the
// reference behavior for the postgres implementations.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ahm4dd/subhub/internal/models"
	"github.com/ahm4dd/subhub/internal/repository"
)

type Storage struct {
	users         *UserRepo
	refreshTokens *RefreshTokenRepo
	subscriptions *SubscriptionRepo
}

func NewStorage() repository.Storage {
	return &Storage{
		users: &UserRepo{
			byID:    map[uuid.UUID]models.User{},
			byEmail: map[string]uuid.UUID{},
		},
		refreshTokens: &RefreshTokenRepo{
			tokens: map[string]models.RefreshToken{},
		},
		subscriptions: &SubscriptionRepo{
			byID: map[uuid.UUID]models.Subscription{},
		},
	}
}

func (s *Storage) Users() repository.UserRepo {
	return s.users
}

func (s *Storage) RefreshTokens() repository.RefreshTokenRepo {
	return s.refreshTokens
}

func (s *Storage) Subscriptions() repository.SubscriptionRepo {
	return s.subscriptions
}

// shared by the repos in this package; requests are short lived and the
// contention is test sized, one lock keeps the invariants simple
type locker struct {
	mu sync.Mutex
}

func (l *locker) withLock(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}
