package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/models"
	"github.com/ahm4dd/subhub/internal/repository"
)

const (
	defaultRefreshTokenTTL   = 60 * 24 * time.Hour // 60 days
	defaultRefreshCookieName = "refreshToken"
)

type Config struct {
	// Hasher to use during sign up and sign in
	// BcryptHasher with the default cost if not set
	Hasher PasswordHasher

	// Refresh token lifetime, 60 days if not set
	RefreshTTL time.Duration

	// Cookie carrying the refresh token, "refreshToken" if not set
	RefreshCookieName string
}

// Service orchestrates sign up, sign in, sign out, refresh and revoke.
// One refresh token moves through ACTIVE -> REVOKED (terminal) or
// ACTIVE -> EXPIRED (by time passing); there is no way back out of either.
type Service struct {
	codec      *TokenCodec
	hasher     PasswordHasher
	refreshTTL time.Duration
	cookieName string

	users   repository.UserRepo
	refresh repository.RefreshTokenRepo
}

func NewService(cfg Config, codec *TokenCodec, storage repository.Storage) (*Service, error) {
	if codec == nil {
		return nil, errors.New("token codec must not be nil")
	}
	if storage == nil {
		return nil, errors.New("storage must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = BcryptHasher{}
	}
	if cfg.RefreshTTL == 0 {
		cfg.RefreshTTL = defaultRefreshTokenTTL
	}
	if cfg.RefreshCookieName == "" {
		cfg.RefreshCookieName = defaultRefreshCookieName
	}

	return &Service{
		codec:      codec,
		hasher:     hasher,
		refreshTTL: cfg.RefreshTTL,
		cookieName: cfg.RefreshCookieName,
		users:      storage.Users(),
		refresh:    storage.RefreshTokens(),
	}, nil
}

// SignUp creates the user and issues the first token pair.
// A taken email surfaces as apperrors.ErrUserAlreadyExists. The email
// existence check here only narrows the race; the unique constraint in
// the user store settles it.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (models.User, models.TokenPair, error) {
	if name == "" || email == "" || password == "" {
		return models.User{}, models.TokenPair{}, apperrors.ErrMissingCredentials
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return models.User{}, models.TokenPair{}, apperrors.ErrUserAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, models.TokenPair{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	user, err := s.users.CreateUser(ctx, repository.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	pair, err := s.generatePair(ctx, user)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// SignIn verifies credentials and issues a fresh token pair.
// "No such email" and "wrong password" both come back as
// apperrors.ErrInvalidCredentials so responses can't enumerate accounts.
func (s *Service) SignIn(ctx context.Context, email, password string) (models.User, models.TokenPair, error) {
	if email == "" || password == "" {
		return models.User{}, models.TokenPair{}, apperrors.ErrMissingCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return models.User{}, models.TokenPair{}, apperrors.ErrInvalidCredentials
		}
		return models.User{}, models.TokenPair{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, apperrors.ErrPasswordMismatch) {
			return models.User{}, models.TokenPair{}, apperrors.ErrInvalidCredentials
		}
		return models.User{}, models.TokenPair{}, err
	}

	pair, err := s.generatePair(ctx, user)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, pair, nil
}

// SignOut revokes the refresh token. Revoking twice is not allowed:
// an already revoked or expired token returns a validation error.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.Revoke(ctx, refreshToken)
}

// Revoke transitions an active token to REVOKED
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.ErrNoRefreshToken
	}

	token, err := s.refresh.GetByToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := checkUsable(token); err != nil {
		return err
	}

	if _, err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		return err
	}

	return nil
}

// Refresh exchanges an active refresh token for a new access token.
// The refresh token itself is not rotated: the caller keeps the same
// cookie value until it expires or is revoked.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	if refreshToken == "" {
		return models.TokenPair{}, apperrors.ErrNoRefreshToken
	}

	token, err := s.refresh.GetByToken(ctx, refreshToken)
	if err != nil {
		return models.TokenPair{}, err
	}
	if err := checkUsable(token); err != nil {
		return models.TokenPair{}, err
	}

	// Should only fail if foreign key discipline was broken
	user, err := s.users.GetUserByID(ctx, token.UserID)
	if err != nil {
		return models.TokenPair{}, err
	}

	access, err := s.codec.Issue(user.ID, ScopeUser)
	if err != nil {
		return models.TokenPair{}, err
	}

	return models.TokenPair{
		Access:  access,
		Refresh: models.IssuedToken{Value: token.Token, ExpiresAt: token.ExpiresAt},
	}, nil
}

// checkUsable rejects refresh tokens that already left the ACTIVE state,
// naming which terminal state was hit
func checkUsable(token models.RefreshToken) error {
	if token.Usable(time.Now()) {
		return nil
	}
	if token.Revoked() {
		return apperrors.ErrRefreshTokenRevoked
	}
	return apperrors.ErrRefreshTokenExpired
}

// generatePair mints an access token and persists a new refresh token
func (s *Service) generatePair(ctx context.Context, user models.User) (models.TokenPair, error) {
	access, err := s.codec.Issue(user.ID, ScopeUser)
	if err != nil {
		return models.TokenPair{}, err
	}

	value, err := NewRefreshTokenValue()
	if err != nil {
		return models.TokenPair{}, err
	}

	now := time.Now().Truncate(time.Second)
	refresh, err := s.refresh.Create(ctx, models.RefreshToken{
		Token:     value,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTTL),
	})
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.TokenPair{
		Access:  access,
		Refresh: models.IssuedToken{Value: refresh.Token, ExpiresAt: refresh.ExpiresAt},
	}, nil
}

// SetRefreshCookie writes the refresh token as an http-only strict
// same-site cookie, the only place the opaque token travels.
func (s *Service) SetRefreshCookie(w http.ResponseWriter, refresh models.IssuedToken) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    refresh.Value,
		Path:     "/",
		MaxAge:   int(time.Until(refresh.ExpiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearRefreshCookie expires the refresh cookie on the client
func (s *Service) ClearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// RefreshFromRequest reads the refresh token cookie.
// Returns apperrors.ErrNoRefreshToken if the cookie is absent.
func (s *Service) RefreshFromRequest(r *http.Request) (string, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return "", apperrors.ErrNoRefreshToken
	}
	return cookie.Value, nil
}
