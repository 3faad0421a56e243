package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ahm4dd/subhub/internal/apperrors"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	// Returns apperrors.ErrPasswordMismatch if the password doesn't match
	// and apperrors.ErrMalformedHash if hashedPassword isn't a valid hash
	Compare(hashedPassword string, password string) error
}

const DefaultHashCost = 10

// Bcrypt password hasher
// Passwords are pre-hashed with sha256 so bcrypt's 72 byte input limit
// never truncates long passwords
type BcryptHasher struct {
	// Bcrypt cost factor, DefaultHashCost when zero
	Cost int
}

func (h BcryptHasher) cost() int {
	if h.Cost == 0 {
		return DefaultHashCost
	}
	return h.Cost
}

func (h BcryptHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], h.cost())
	if err != nil {
		return "", fmt.Errorf("error while hashing password. Err: %w", err)
	}
	return string(hash), nil
}

func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return apperrors.ErrPasswordMismatch
	default:
		// Anything else means hashedPassword isn't a bcrypt hash at all
		return fmt.Errorf("%w: %w", apperrors.ErrMalformedHash, err)
	}
}
