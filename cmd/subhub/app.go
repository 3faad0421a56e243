package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ahm4dd/subhub/internal/db"
	"github.com/ahm4dd/subhub/internal/handlers"
	"github.com/ahm4dd/subhub/internal/logger"
	"github.com/ahm4dd/subhub/internal/repository/postgres"
	"github.com/ahm4dd/subhub/internal/service/auth"
	"github.com/ahm4dd/subhub/internal/service/subscription"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
	Logger     logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	storage := postgres.NewStorage(pool)

	codec, err := auth.NewTokenCodec(auth.TokenCodecConfig{
		UserSecret:  c.UserSecret,
		AdminSecret: c.AdminSecret,
		AccessTTL:   c.AccessTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token codec. Err: %w", err)
	}

	hasher := auth.BcryptHasher{Cost: c.HashCost}

	authService, err := auth.NewService(auth.Config{
		Hasher:     hasher,
		RefreshTTL: c.RefreshTokenTTL,
	}, codec, storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	subscriptionService, err := subscription.NewService(storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating subscription service. Err: %w", err)
	}

	guard := auth.NewGuard(codec)

	mux := handlers.NewRouter(
		handlers.NewAuth(authService, l),
		handlers.NewUser(storage.Users(), hasher, guard, l),
		handlers.NewSubscription(subscriptionService, guard, l),
		guard,
		l,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		Logger:     l,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.Logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown")
		}
		s.Logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close connections gracefully
	s.Logger.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
