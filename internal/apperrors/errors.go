package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	// Returned on any credential mismatch during sign in.
	// Deliberately one error for "no such email" and "wrong password"
	// so responses can't be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrMissingCredentials = errors.New("name, email and password are required")

	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenRevoked  = errors.New("refresh token already revoked")
	ErrRefreshTokenExpired  = errors.New("refresh token is expired")
	ErrRefreshTokenExists   = errors.New("refresh token already exists")
	ErrNoRefreshToken       = errors.New("no refresh token provided")

	ErrInvalidAccessToken = errors.New("access token is invalid or expired")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrMalformedHash    = errors.New("password hash is malformed")
	ErrPasswordMismatch = errors.New("password does not match")

	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrSubscriptionCancelled = errors.New("subscription already cancelled")
)
