package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ahm4dd/subhub/internal/repository"
)

// DBTX is satisfied by pgxpool.Pool and pgx.Tx, so every repository
// works the same over a pool or inside a transaction
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) repository.Storage {
	return &Storage{db: db}
}

func (s *Storage) Users() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) RefreshTokens() repository.RefreshTokenRepo {
	return &RefreshTokenRepo{DB: s.db}
}

func (s *Storage) Subscriptions() repository.SubscriptionRepo {
	return &SubscriptionRepo{DB: s.db}
}
