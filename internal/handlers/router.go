package handlers

import (
	"net/http"

	"github.com/ahm4dd/subhub/internal/handlers/middleware"
	"github.com/ahm4dd/subhub/internal/logger"
	"github.com/ahm4dd/subhub/internal/service/auth"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// NewRouter wires every handler under /api/v1. Auth routes are open,
// user and subscription routes require the user scope, the admin user
// surface requires the disjoint admin scope.
func NewRouter(
	authHandler *AuthHandler,
	userHandler *UserHandler,
	subscriptionHandler *SubscriptionHandler,
	guard *auth.Guard,
	l logger.Logger,
) http.Handler {
	withUserAuth := middleware.Auth(guard, auth.ScopeUser)
	withAdminAuth := middleware.Auth(guard, auth.ScopeAdmin)

	root := http.NewServeMux()
	root.Handle("/api/v1/auth/", authHandler.Handler())

	root.Handle("/api/v1/users/", withUserAuth(userHandler.OwnerHandler()))

	adminUsers := withAdminAuth(userHandler.AdminHandler())
	root.Handle("/api/v1/admin/users", adminUsers)
	root.Handle("/api/v1/admin/users/", adminUsers)

	subscriptions := withUserAuth(subscriptionHandler.Handler())
	root.Handle("/api/v1/subscriptions", subscriptions)
	root.Handle("/api/v1/subscriptions/", subscriptions)

	return chain(root,
		middleware.Logger(l),
	)
}
