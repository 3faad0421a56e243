package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/models"
)

type SubscriptionRepo struct {
	locker

	byID map[uuid.UUID]models.Subscription
}

func (r *SubscriptionRepo) Create(ctx context.Context, sub models.Subscription) (models.Subscription, error) {
	r.withLock(func() {
		now := time.Now()
		sub.ID = uuid.New()
		sub.CreatedAt = now
		sub.UpdatedAt = now
		r.byID[sub.ID] = sub
	})

	return sub, nil
}

func (r *SubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Subscription, error) {
	var sub models.Subscription
	var err error

	r.withLock(func() {
		s, ok := r.byID[id]
		if !ok {
			err = fmt.Errorf("repo error: %w", apperrors.ErrSubscriptionNotFound)
			return
		}
		sub = s
	})

	return sub, err
}

func (r *SubscriptionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	var subs []models.Subscription

	r.withLock(func() {
		for _, s := range r.byID {
			if s.UserID == userID {
				subs = append(subs, s)
			}
		}
	})

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].CreatedAt.Before(subs[j].CreatedAt)
	})

	return subs, nil
}

func (r *SubscriptionRepo) Update(ctx context.Context, sub models.Subscription) (models.Subscription, error) {
	var err error

	r.withLock(func() {
		existing, ok := r.byID[sub.ID]
		if !ok {
			err = fmt.Errorf("repo error: %w", apperrors.ErrSubscriptionNotFound)
			return
		}

		sub.UserID = existing.UserID
		sub.CreatedAt = existing.CreatedAt
		sub.UpdatedAt = time.Now()
		r.byID[sub.ID] = sub
	})

	return sub, err
}

func (r *SubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	var err error

	r.withLock(func() {
		if _, ok := r.byID[id]; !ok {
			err = fmt.Errorf("repo error: %w", apperrors.ErrSubscriptionNotFound)
			return
		}
		delete(r.byID, id)
	})

	return err
}
