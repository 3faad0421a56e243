package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ahm4dd/subhub/internal/handlers/render"
	"github.com/ahm4dd/subhub/internal/handlers/userctx"
	"github.com/ahm4dd/subhub/internal/service/auth"
)

type guard interface {
	Authenticate(r *http.Request, scope auth.Scope) (uuid.UUID, error)
}

// Auth authenticates the request in the given scope and stores the
// subject id in the request context. A missing, malformed or expired
// token is rejected with 403 before reaching the handler; 401 is
// reserved for credential failures on sign in.
func Auth(g guard, scope auth.Scope) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := g.Authenticate(r, scope)
			if err != nil {
				render.ServiceError(w, "Forbidden", http.StatusForbidden)
				return
			}

			ctx := userctx.New(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
