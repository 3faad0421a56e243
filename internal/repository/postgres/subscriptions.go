package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/models"
)

type SubscriptionRepo struct {
	DB DBTX
}

const createSubscription = `-- name: CreateSubscription
INSERT INTO subscriptions (user_id, name, price, currency, frequency, status, category, payment_method, start_date, renewal_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, user_id, name, price, currency, frequency, status, category, payment_method, start_date, renewal_date, created_at, updated_at
`

func (r *SubscriptionRepo) Create(ctx context.Context, sub models.Subscription) (models.Subscription, error) {
	rows, _ := r.DB.Query(ctx, createSubscription,
		sub.UserID, sub.Name, sub.Price, sub.Currency, sub.Frequency,
		sub.Status, sub.Category, sub.PaymentMethod, sub.StartDate, sub.RenewalDate,
	)
	created, err := pgx.CollectOneRow(rows, rowToSubscription)
	if err != nil {
		return created, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

const getSubscriptionByID = `-- name: GetSubscriptionByID
SELECT id, user_id, name, price, currency, frequency, status, category, payment_method, start_date, renewal_date, created_at, updated_at
FROM subscriptions
WHERE id = $1
`

func (r *SubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Subscription, error) {
	rows, _ := r.DB.Query(ctx, getSubscriptionByID, id)
	return collectSubscription(rows)
}

const listSubscriptionsByUser = `-- name: ListSubscriptionsByUser
SELECT id, user_id, name, price, currency, frequency, status, category, payment_method, start_date, renewal_date, created_at, updated_at
FROM subscriptions
WHERE user_id = $1
ORDER BY created_at
`

func (r *SubscriptionRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Subscription, error) {
	rows, _ := r.DB.Query(ctx, listSubscriptionsByUser, userID)
	subs, err := pgx.CollectRows(rows, rowToSubscription)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return subs, nil
}

const updateSubscription = `-- name: UpdateSubscription
UPDATE subscriptions
SET name = $2, price = $3, currency = $4, frequency = $5, status = $6,
    category = $7, payment_method = $8, start_date = $9, renewal_date = $10,
    updated_at = now()
WHERE id = $1
RETURNING id, user_id, name, price, currency, frequency, status, category, payment_method, start_date, renewal_date, created_at, updated_at
`

func (r *SubscriptionRepo) Update(ctx context.Context, sub models.Subscription) (models.Subscription, error) {
	rows, _ := r.DB.Query(ctx, updateSubscription,
		sub.ID, sub.Name, sub.Price, sub.Currency, sub.Frequency,
		sub.Status, sub.Category, sub.PaymentMethod, sub.StartDate, sub.RenewalDate,
	)
	return collectSubscription(rows)
}

const deleteSubscription = `-- name: DeleteSubscription
DELETE FROM subscriptions
WHERE id = $1
`

func (r *SubscriptionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteSubscription, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrSubscriptionNotFound)
	}
	return nil
}

func collectSubscription(rows pgx.Rows) (models.Subscription, error) {
	sub, err := pgx.CollectOneRow(rows, rowToSubscription)

	switch {
	case err == nil:
		return sub, nil
	case errors.Is(err, pgx.ErrNoRows):
		return sub, fmt.Errorf("repo error: %w", apperrors.ErrSubscriptionNotFound)
	default:
		return sub, fmt.Errorf("db error: %w", err)
	}
}

func rowToSubscription(row pgx.CollectableRow) (models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.Price, &s.Currency, &s.Frequency,
		&s.Status, &s.Category, &s.PaymentMethod, &s.StartDate, &s.RenewalDate,
		&s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}
