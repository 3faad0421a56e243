package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/models"
	"github.com/ahm4dd/subhub/internal/testutil"
)

func Test_SubscriptionRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	newSubscription := func(userID uuid.UUID) models.Subscription {
		start := mustParseTime("2024-01-01 00:00:00Z")
		renewal := start.AddDate(0, 1, 0)
		return models.Subscription{
			UserID:        userID,
			Name:          "Netflix",
			Price:         decimal.RequireFromString("15.99"),
			Currency:      "USD",
			Frequency:     models.FrequencyMonthly,
			Status:        models.SubscriptionActive,
			Category:      "entertainment",
			PaymentMethod: "Credit Card",
			StartDate:     start,
			RenewalDate:   &renewal,
		}
	}

	t.Run("create subscription ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := SubscriptionRepo{DB: tx}
			sub := newSubscription(createTokenOwner(t, tx))

			got, err := repo.Create(t.Context(), sub)

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID, "ID should be generated")
			assert.Equal(t, sub.UserID, got.UserID)
			assert.Equal(t, "Netflix", got.Name)
			assert.True(t, got.Price.Equal(sub.Price), "price must survive the round trip")
			assert.Equal(t, models.FrequencyMonthly, got.Frequency)
			assert.Equal(t, models.SubscriptionActive, got.Status)
			require.NotNil(t, got.RenewalDate)
			assert.WithinDuration(t, *sub.RenewalDate, *got.RenewalDate, 0)
			assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Second)
		})
	})

	t.Run("get by id ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := SubscriptionRepo{DB: tx}
			created, err := repo.Create(t.Context(), newSubscription(createTokenOwner(t, tx)))
			require.NoError(t, err)

			got, err := repo.GetByID(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.Name, got.Name)
			assert.True(t, created.Price.Equal(got.Price))
		})
	})

	t.Run("get by id not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := SubscriptionRepo{DB: tx}

			_, err := repo.GetByID(t.Context(), uuid.New())

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)
		})
	})

	t.Run("list by user returns only own rows", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := SubscriptionRepo{DB: tx}
			ownerID := createTokenOwner(t, tx)
			_, err := repo.Create(t.Context(), newSubscription(ownerID))
			require.NoError(t, err)
			_, err = repo.Create(t.Context(), newSubscription(ownerID))
			require.NoError(t, err)

			subs, err := repo.ListByUser(t.Context(), ownerID)
			require.NoError(t, err)
			assert.Len(t, subs, 2)

			other, err := repo.ListByUser(t.Context(), uuid.New())
			require.NoError(t, err)
			assert.Empty(t, other)
		})
	})

	t.Run("update subscription ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := SubscriptionRepo{DB: tx}
			created, err := repo.Create(t.Context(), newSubscription(createTokenOwner(t, tx)))
			require.NoError(t, err)

			created.Status = models.SubscriptionCancelled
			created.Price = decimal.RequireFromString("19.99")
			got, err := repo.Update(t.Context(), created)

			require.NoError(t, err)
			assert.Equal(t, models.SubscriptionCancelled, got.Status)
			assert.True(t, got.Price.Equal(decimal.RequireFromString("19.99")))
			assert.False(t, got.UpdatedAt.Before(created.UpdatedAt), "UpdatedAt must move forward")
		})
	})

	t.Run("update not existed subscription", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := SubscriptionRepo{DB: tx}
			sub := newSubscription(createTokenOwner(t, tx))
			sub.ID = uuid.New()

			_, err := repo.Update(t.Context(), sub)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)
		})
	})

	t.Run("delete subscription ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := SubscriptionRepo{DB: tx}
			created, err := repo.Create(t.Context(), newSubscription(createTokenOwner(t, tx)))
			require.NoError(t, err)

			err = repo.Delete(t.Context(), created.ID)
			require.NoError(t, err)

			_, err = repo.GetByID(t.Context(), created.ID)
			assert.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)
		})
	})

	t.Run("delete not existed subscription", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := SubscriptionRepo{DB: tx}

			err := repo.Delete(t.Context(), uuid.New())

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)
		})
	})
}
