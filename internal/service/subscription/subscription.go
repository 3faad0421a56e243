package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/models"
	"github.com/ahm4dd/subhub/internal/repository"
)

type Service struct {
	subs repository.SubscriptionRepo
}

func NewService(storage repository.Storage) (*Service, error) {
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}
	return &Service{subs: storage.Subscriptions()}, nil
}

// Create stores the subscription for the owner with a computed renewal date
func (s *Service) Create(ctx context.Context, sub models.Subscription) (models.Subscription, error) {
	if sub.Status == "" {
		sub.Status = models.SubscriptionActive
	}
	sub.RenewalDate = RenewalDate(sub.StartDate, sub.Frequency)

	return s.subs.Create(ctx, sub)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (models.Subscription, error) {
	return s.subs.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	return s.subs.ListByUser(ctx, userID)
}

// Update replaces the mutable fields and recomputes the renewal date
func (s *Service) Update(ctx context.Context, sub models.Subscription) (models.Subscription, error) {
	sub.RenewalDate = RenewalDate(sub.StartDate, sub.Frequency)
	return s.subs.Update(ctx, sub)
}

// Cancel marks the subscription cancelled, keeping the row
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (models.Subscription, error) {
	sub, err := s.subs.GetByID(ctx, id)
	if err != nil {
		return models.Subscription{}, err
	}

	if sub.Status == models.SubscriptionCancelled {
		return models.Subscription{}, apperrors.ErrSubscriptionCancelled
	}

	sub.Status = models.SubscriptionCancelled
	return s.subs.Update(ctx, sub)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.subs.Delete(ctx, id)
}

// UpcomingRenewals returns the user's active subscriptions renewing
// within the window starting at now
func (s *Service) UpcomingRenewals(ctx context.Context, userID uuid.UUID, now time.Time, window time.Duration) ([]models.Subscription, error) {
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	until := now.Add(window)
	upcoming := make([]models.Subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.Status != models.SubscriptionActive || sub.RenewalDate == nil {
			continue
		}
		if sub.RenewalDate.Before(now) || sub.RenewalDate.After(until) {
			continue
		}
		upcoming = append(upcoming, sub)
	}

	return upcoming, nil
}

// RenewalDate returns the next renewal after startDate for the billing
// frequency, or nil when the frequency is unknown or dates are missing
func RenewalDate(startDate time.Time, frequency string) *time.Time {
	if startDate.IsZero() {
		return nil
	}

	var renewal time.Time
	switch frequency {
	case models.FrequencyDaily:
		renewal = startDate.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		renewal = startDate.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		renewal = startDate.AddDate(0, 1, 0)
	case models.FrequencyYearly:
		renewal = startDate.AddDate(1, 0, 0)
	default:
		return nil
	}

	return &renewal
}
