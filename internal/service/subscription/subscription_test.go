package subscription

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/models"
	"github.com/ahm4dd/subhub/internal/repository/memory"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

func Test_RenewalDate(t *testing.T) {
	t.Parallel()

	start := mustParseTime("2024-01-15 12:00:00Z")

	tests := []struct {
		frequency string
		expected  time.Time
	}{
		{frequency: models.FrequencyDaily, expected: mustParseTime("2024-01-16 12:00:00Z")},
		{frequency: models.FrequencyWeekly, expected: mustParseTime("2024-01-22 12:00:00Z")},
		{frequency: models.FrequencyMonthly, expected: mustParseTime("2024-02-15 12:00:00Z")},
		{frequency: models.FrequencyYearly, expected: mustParseTime("2025-01-15 12:00:00Z")},
	}

	for _, tt := range tests {
		t.Run(tt.frequency, func(t *testing.T) {
			got := RenewalDate(start, tt.frequency)

			require.NotNil(t, got)
			assert.Equal(t, tt.expected, *got)
		})
	}

	t.Run("unknown frequency", func(t *testing.T) {
		require.Nil(t, RenewalDate(start, "fortnightly"))
	})

	t.Run("zero start date", func(t *testing.T) {
		require.Nil(t, RenewalDate(time.Time{}, models.FrequencyMonthly))
	})
}

func Test_SubscriptionService(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	newSubscription := func() models.Subscription {
		return models.Subscription{
			UserID:        userID,
			Name:          "Netflix",
			Price:         decimal.NewFromFloat(15.99),
			Currency:      "USD",
			Frequency:     models.FrequencyMonthly,
			Category:      "entertainment",
			PaymentMethod: "credit card",
			StartDate:     mustParseTime("2024-01-15 12:00:00Z"),
		}
	}

	newService := func(t *testing.T) *Service {
		s, err := NewService(memory.NewStorage())
		require.NoError(t, err)
		return s
	}

	t.Run("create sets status and renewal date", func(t *testing.T) {
		s := newService(t)

		sub, err := s.Create(t.Context(), newSubscription())

		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionActive, sub.Status)
		require.NotNil(t, sub.RenewalDate)
		assert.Equal(t, mustParseTime("2024-02-15 12:00:00Z"), *sub.RenewalDate)
	})

	t.Run("list by user", func(t *testing.T) {
		s := newService(t)

		_, err := s.Create(t.Context(), newSubscription())
		require.NoError(t, err)

		other := newSubscription()
		other.UserID = uuid.New()
		_, err = s.Create(t.Context(), other)
		require.NoError(t, err)

		subs, err := s.ListByUser(t.Context(), userID)
		require.NoError(t, err)
		require.Len(t, subs, 1, "only the owner's subscriptions should be listed")
	})

	t.Run("update recomputes renewal date", func(t *testing.T) {
		s := newService(t)

		sub, err := s.Create(t.Context(), newSubscription())
		require.NoError(t, err)

		sub.Frequency = models.FrequencyYearly
		updated, err := s.Update(t.Context(), sub)

		require.NoError(t, err)
		require.NotNil(t, updated.RenewalDate)
		assert.Equal(t, mustParseTime("2025-01-15 12:00:00Z"), *updated.RenewalDate)
	})

	t.Run("cancel", func(t *testing.T) {
		s := newService(t)

		sub, err := s.Create(t.Context(), newSubscription())
		require.NoError(t, err)

		cancelled, err := s.Cancel(t.Context(), sub.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SubscriptionCancelled, cancelled.Status)

		_, err = s.Cancel(t.Context(), sub.ID)
		require.ErrorIs(t, err, apperrors.ErrSubscriptionCancelled, "cancelling twice should fail")
	})

	t.Run("upcoming renewals", func(t *testing.T) {
		s := newService(t)

		// Renews 2024-02-15, within a week of 2024-02-10
		renewing, err := s.Create(t.Context(), newSubscription())
		require.NoError(t, err)

		// Renews 2025-01-15, far outside the window
		distant := newSubscription()
		distant.Frequency = models.FrequencyYearly
		_, err = s.Create(t.Context(), distant)
		require.NoError(t, err)

		// Would renew in the window but is cancelled
		cancelled, err := s.Create(t.Context(), newSubscription())
		require.NoError(t, err)
		_, err = s.Cancel(t.Context(), cancelled.ID)
		require.NoError(t, err)

		now := mustParseTime("2024-02-10 00:00:00Z")
		upcoming, err := s.UpcomingRenewals(t.Context(), userID, now, 7*24*time.Hour)

		require.NoError(t, err)
		require.Len(t, upcoming, 1, "only active subscriptions renewing inside the window")
		assert.Equal(t, renewing.ID, upcoming[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		s := newService(t)

		sub, err := s.Create(t.Context(), newSubscription())
		require.NoError(t, err)

		require.NoError(t, s.Delete(t.Context(), sub.ID))

		_, err = s.Get(t.Context(), sub.ID)
		require.ErrorIs(t, err, apperrors.ErrSubscriptionNotFound)
	})
}
