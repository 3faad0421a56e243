package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ahm4dd/subhub/internal/apperrors"
)

const bearerScheme = "Bearer "

// Guard authenticates requests from the Authorization header.
// It is the single verification entry point: call sites map the returned
// error to whatever status granularity they need.
type Guard struct {
	codec *TokenCodec
}

func NewGuard(codec *TokenCodec) *Guard {
	return &Guard{codec: codec}
}

// Authenticate extracts the bearer token and verifies it in the given
// scope. A missing or malformed header and a failed verification both
// come back as apperrors.ErrNotAuthenticated.
func (g *Guard) Authenticate(r *http.Request, scope Scope) (uuid.UUID, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerScheme) {
		return uuid.Nil, apperrors.ErrNotAuthenticated
	}

	subject, err := g.codec.Verify(strings.TrimPrefix(header, bearerScheme), scope)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", apperrors.ErrNotAuthenticated, err)
	}

	return subject, nil
}

// RequireOwner enforces the ownership pattern used by every protected
// handler: the authenticated subject must match the resource owner.
func (g *Guard) RequireOwner(subject uuid.UUID, owner uuid.UUID) error {
	if subject != owner {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
