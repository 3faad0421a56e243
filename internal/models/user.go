package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Never serialized outward. Handlers build their own response
	// structs and must not include this field.
	PasswordHash string
}
