package models

import (
	"time"

	"github.com/google/uuid"
)

type RefreshToken struct {
	Token     string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time // nil while the token is active
}

// Revoked reports whether the token was revoked. Revocation is terminal.
func (t RefreshToken) Revoked() bool {
	return t.RevokedAt != nil
}

func (t RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// Usable reports whether the token may still be exchanged or signed out:
// not revoked and not past its expiry.
func (t RefreshToken) Usable(now time.Time) bool {
	return !t.Revoked() && !t.Expired(now)
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued by the auth service on sign up and sign in
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
