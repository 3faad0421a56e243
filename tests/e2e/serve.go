package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/ahm4dd/subhub/internal/handlers"
	"github.com/ahm4dd/subhub/internal/logger"
	"github.com/ahm4dd/subhub/internal/repository/postgres"
	"github.com/ahm4dd/subhub/internal/service/auth"
	"github.com/ahm4dd/subhub/internal/service/subscription"
	"github.com/ahm4dd/subhub/internal/testutil"
)

type Services struct {
	Codec               *auth.TokenCodec
	AuthService         *auth.Service
	SubscriptionService *subscription.Service
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		codec, err := auth.NewTokenCodec(auth.TokenCodecConfig{
			UserSecret:  "test-secret",
			AdminSecret: "test-admin-secret",
		})
		require.NoError(t, err, "token codec should be created without errors")

		as, err := auth.NewService(auth.Config{}, codec, storage)
		require.NoError(t, err, "auth service starting error")

		ss, err := subscription.NewService(storage)
		require.NoError(t, err, "subscription service starting error")

		guard := auth.NewGuard(codec)

		l := logger.NewNoOp()
		router := handlers.NewRouter(
			handlers.NewAuth(as, l),
			handlers.NewUser(storage.Users(), auth.BcryptHasher{}, guard, l),
			handlers.NewSubscription(ss, guard, l),
			guard,
			l,
		)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			Codec:               codec,
			AuthService:         as,
			SubscriptionService: ss,
		})
	})
}
