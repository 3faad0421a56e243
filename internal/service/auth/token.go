package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ahm4dd/subhub/internal/apperrors"
	"github.com/ahm4dd/subhub/internal/models"
)

const (
	// Issuer claim set on every access token
	TokenIssuer = "subhub"

	defaultSigningMethod  = "HS256"
	defaultAccessTokenTTL = time.Hour

	// 32 random bytes hex encoded: 64 characters on the wire
	refreshTokenBytes = 32
)

// Scope selects the trust domain a token belongs to. Regular users and
// administrators are signed with disjoint secrets, so a token issued in
// one scope never verifies in the other.
type Scope string

const (
	ScopeUser  Scope = "user"
	ScopeAdmin Scope = "admin"
)

type TokenCodecConfig struct {
	// Secret key per trust domain
	// UserSecret is required, AdminSecret only when admin routes are served
	UserSecret  string
	AdminSecret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set then HS256 is used
	Alg string

	// Access token lifetime
	// If not set then the one hour default is used
	AccessTTL time.Duration
}

// TokenCodec signs and verifies short lived access tokens
type TokenCodec struct {
	alg       jwt.SigningMethod
	accessTTL time.Duration
	secrets   map[Scope][]byte
}

func NewTokenCodec(cfg TokenCodecConfig) (*TokenCodec, error) {
	if cfg.UserSecret == "" {
		return nil, errors.New("user secret must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTokenTTL
	}

	secrets := map[Scope][]byte{ScopeUser: []byte(cfg.UserSecret)}
	if cfg.AdminSecret != "" {
		secrets[ScopeAdmin] = []byte(cfg.AdminSecret)
	}

	return &TokenCodec{
		alg:       jwt.GetSigningMethod(cfg.Alg),
		accessTTL: cfg.AccessTTL,
		secrets:   secrets,
	}, nil
}

// Issue signs an access token for the subject in the given scope
func (c *TokenCodec) Issue(subject uuid.UUID, scope Scope) (models.IssuedToken, error) {
	secret, ok := c.secrets[scope]
	if !ok {
		return models.IssuedToken{}, fmt.Errorf("no secret configured for scope %q", scope)
	}

	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(c.accessTTL)

	token := jwt.NewWithClaims(c.alg, jwt.RegisteredClaims{
		Issuer:    TokenIssuer,
		Subject:   subject.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing access token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify parses the access token under the scope's secret and returns the
// subject id. Any signature, issuer, format or expiry failure comes back
// as apperrors.ErrInvalidAccessToken. Expiry is strict: exp has to be
// after now, no skew tolerance.
func (c *TokenCodec) Verify(tokenString string, scope Scope) (uuid.UUID, error) {
	secret, ok := c.secrets[scope]
	if !ok {
		return uuid.Nil, fmt.Errorf("no secret configured for scope %q", scope)
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{c.alg.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidAccessToken, err)
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject claim: %w", apperrors.ErrInvalidAccessToken, err)
	}

	return subject, nil
}

// NewRefreshTokenValue generates an opaque high entropy refresh token.
// Predictability here would be an account takeover, so crypto/rand only.
func NewRefreshTokenValue() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error while generating refresh token. Err: %w", err)
	}
	return hex.EncodeToString(b), nil
}
