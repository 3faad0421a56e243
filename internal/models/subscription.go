package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
	FrequencyYearly  = "yearly"
)

const (
	SubscriptionActive    = "active"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

type Subscription struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Name          string
	Price         decimal.Decimal
	Currency      string
	Frequency     string
	Status        string
	Category      string
	PaymentMethod string
	StartDate     time.Time
	RenewalDate   *time.Time // nil if frequency is unknown
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
