package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahm4dd/subhub/internal/apperrors"
)

func Test_TokenCodec(t *testing.T) {
	t.Parallel()

	subject := uuid.New()

	newCodec := func(t *testing.T, cfg TokenCodecConfig) *TokenCodec {
		if cfg.UserSecret == "" {
			cfg.UserSecret = "user-secret"
		}
		codec, err := NewTokenCodec(cfg)
		require.NoError(t, err, "codec should be created without errors")
		return codec
	}

	t.Run("new defaults", func(t *testing.T) {
		codec := newCodec(t, TokenCodecConfig{})

		require.Equal(t, "HS256", codec.alg.Alg(), "default signing method should be HS256")
		require.Equal(t, time.Hour, codec.accessTTL, "default access TTL should be one hour")
	})

	t.Run("new fails without user secret", func(t *testing.T) {
		_, err := NewTokenCodec(TokenCodecConfig{})
		require.Error(t, err)
	})

	t.Run("issue and verify round trip", func(t *testing.T) {
		codec := newCodec(t, TokenCodecConfig{})

		token, err := codec.Issue(subject, ScopeUser)
		require.NoError(t, err)
		require.NotEmpty(t, token.Value)
		assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, time.Second)

		got, err := codec.Verify(token.Value, ScopeUser)
		require.NoError(t, err)
		assert.Equal(t, subject, got, "subject should survive the round trip")
	})

	t.Run("claims", func(t *testing.T) {
		codec := newCodec(t, TokenCodecConfig{AccessTTL: 15 * time.Minute})

		token, err := codec.Issue(subject, ScopeUser)
		require.NoError(t, err)

		claims := &jwt.RegisteredClaims{}
		parsed, err := jwt.ParseWithClaims(token.Value, claims, func(t *jwt.Token) (any, error) {
			return []byte("user-secret"), nil
		})
		require.NoError(t, err)
		require.True(t, parsed.Valid)

		assert.Equal(t, "subhub", claims.Issuer)
		assert.Equal(t, subject.String(), claims.Subject)
		assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Second)
		assert.WithinDuration(t, token.ExpiresAt, claims.ExpiresAt.Time, 0, "expiry in the pair should match the claim")
	})

	t.Run("fail verify with wrong secret", func(t *testing.T) {
		codec := newCodec(t, TokenCodecConfig{})
		other := newCodec(t, TokenCodecConfig{UserSecret: "other-secret"})

		token, err := codec.Issue(subject, ScopeUser)
		require.NoError(t, err)

		_, err = other.Verify(token.Value, ScopeUser)
		require.ErrorIs(t, err, apperrors.ErrInvalidAccessToken)
	})

	t.Run("scopes are disjoint trust domains", func(t *testing.T) {
		codec := newCodec(t, TokenCodecConfig{AdminSecret: "admin-secret"})

		userToken, err := codec.Issue(subject, ScopeUser)
		require.NoError(t, err)
		adminToken, err := codec.Issue(subject, ScopeAdmin)
		require.NoError(t, err)

		_, err = codec.Verify(userToken.Value, ScopeAdmin)
		require.ErrorIs(t, err, apperrors.ErrInvalidAccessToken, "user token must not verify in admin scope")

		_, err = codec.Verify(adminToken.Value, ScopeUser)
		require.ErrorIs(t, err, apperrors.ErrInvalidAccessToken, "admin token must not verify in user scope")

		got, err := codec.Verify(adminToken.Value, ScopeAdmin)
		require.NoError(t, err)
		assert.Equal(t, subject, got)
	})

	t.Run("fail issue in unconfigured scope", func(t *testing.T) {
		codec := newCodec(t, TokenCodecConfig{})

		_, err := codec.Issue(subject, ScopeAdmin)
		require.Error(t, err, "admin scope has no secret configured")
	})

	t.Run("fail verify malformed token", func(t *testing.T) {
		codec := newCodec(t, TokenCodecConfig{})

		_, err := codec.Verify("definitely.not.a-jwt", ScopeUser)
		require.ErrorIs(t, err, apperrors.ErrInvalidAccessToken)
	})

	t.Run("fail verify tampered payload", func(t *testing.T) {
		codec := newCodec(t, TokenCodecConfig{})

		token, err := codec.Issue(subject, ScopeUser)
		require.NoError(t, err)

		// Flip a character inside the payload segment
		tampered := []byte(token.Value)
		mid := len(tampered) / 2
		if tampered[mid] == 'a' {
			tampered[mid] = 'b'
		} else {
			tampered[mid] = 'a'
		}

		_, err = codec.Verify(string(tampered), ScopeUser)
		require.ErrorIs(t, err, apperrors.ErrInvalidAccessToken)
	})

	t.Run("fail verify expired token", func(t *testing.T) {
		codec := newCodec(t, TokenCodecConfig{AccessTTL: time.Second})

		token, err := codec.Issue(subject, ScopeUser)
		require.NoError(t, err)

		// Expiry is strict: exp <= now has to reject
		time.Sleep(time.Second)

		_, err = codec.Verify(token.Value, ScopeUser)
		require.ErrorIs(t, err, apperrors.ErrInvalidAccessToken)
	})

	t.Run("fail verify wrong issuer", func(t *testing.T) {
		codec := newCodec(t, TokenCodecConfig{})

		foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   subject.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, err := foreign.SignedString([]byte("user-secret"))
		require.NoError(t, err)

		_, err = codec.Verify(signed, ScopeUser)
		require.ErrorIs(t, err, apperrors.ErrInvalidAccessToken)
	})
}

func Test_NewRefreshTokenValue(t *testing.T) {
	t.Parallel()

	t.Run("64 hex characters", func(t *testing.T) {
		value, err := NewRefreshTokenValue()
		require.NoError(t, err)

		require.Len(t, value, 64)
		require.Regexp(t, "^[0-9a-f]+$", value)
	})

	t.Run("values don't repeat", func(t *testing.T) {
		seen := map[string]bool{}
		for range 100 {
			value, err := NewRefreshTokenValue()
			require.NoError(t, err)
			require.False(t, seen[value], "refresh token values must not collide")
			seen[value] = true
		}
	})
}
