package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/repository"
	"github.com/ahm4dd/subhub/internal/testutil"
)

func Test_UserRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	params := repository.CreateUserParams{
		Name:         "Alice Smith",
		Email:        "alice@example.com",
		PasswordHash: "hashedpassword123",
	}

	t.Run("create user ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			user, err := repo.CreateUser(t.Context(), params)

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, user.ID, "ID should be generated")
			assert.Equal(t, "Alice Smith", user.Name)
			assert.Equal(t, "alice@example.com", user.Email)
			assert.Equal(t, "hashedpassword123", user.PasswordHash)
			assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Second, "CreatedAt should be recent")
			assert.WithinDuration(t, time.Now(), user.UpdatedAt, time.Second, "UpdatedAt should be recent")
		})
	})

	t.Run("create user duplicate email fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			_, err := repo.CreateUser(t.Context(), params)
			require.NoError(t, err)

			second := params
			second.Name = "Another Alice"
			_, err = repo.CreateUser(t.Context(), second)
			assert.Error(t, err, "Should fail on duplicate email")
			assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists, "if user exists must return well defined error")
		})
	})

	t.Run("get user by id ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}
			created, err := repo.CreateUser(t.Context(), params)
			require.NoError(t, err)

			got, err := repo.GetUserByID(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.Email, got.Email)
			assert.Equal(t, created.PasswordHash, got.PasswordHash)
			assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, 0)
		})
	})

	t.Run("get user by id not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			_, err := repo.GetUserByID(t.Context(), uuid.New())

			assert.Error(t, err, "Should return error for non-existent user")
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "should return well known error")
		})
	})

	t.Run("get user by email ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}
			created, err := repo.CreateUser(t.Context(), params)
			require.NoError(t, err)

			got, err := repo.GetUserByEmail(t.Context(), created.Email)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.PasswordHash, got.PasswordHash)
		})
	})

	t.Run("get user by email not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}

			_, err := repo.GetUserByEmail(t.Context(), "nobody@example.com")

			assert.Error(t, err, "Should return error for non-existent user")
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("list users ordered by creation", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := UserRepo{DB: tx}
			first, err := repo.CreateUser(t.Context(), params)
			require.NoError(t, err)
			second, err := repo.CreateUser(t.Context(), repository.CreateUserParams{
				Name:         "Bob Jones",
				Email:        "bob@example.com",
				PasswordHash: "hashedpassword456",
			})
			require.NoError(t, err)

			users, err := repo.ListUsers(t.Context())

			require.NoError(t, err)
			require.Len(t, users, 2)
			assert.Equal(t, first.ID, users[0].ID)
			assert.Equal(t, second.ID, users[1].ID)
		})
	})
}
