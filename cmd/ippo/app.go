package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/think3er/ippo-backend/internal/db"
	"github.com/think3er/ippo-backend/internal/handlers"
	"github.com/think3er/ippo-backend/internal/logger"
	"github.com/think3er/ippo-backend/internal/repository/postgres"
	"github.com/think3er/ippo-backend/internal/service/auth"
	"github.com/think3er/ippo-backend/internal/service/auth/tokenmanager"
	"github.com/think3er/ippo-backend/internal/service/checkin"
	"github.com/think3er/ippo-backend/internal/service/circle"
	"github.com/think3er/ippo-backend/internal/service/clip"
	"github.com/think3er/ippo-backend/internal/service/journal"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
	Logger     logger.Logger
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	storage := postgres.NewStorage(pool)

	tokenManager, err := tokenmanager.New(tokenmanager.Config{
		SecretKey:  c.SecretKey,
		AccessTTL:  c.AccessTokenTTL,
		RefreshTTL: c.RefreshTokenTTL,
	}, storage.RefreshToken())
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	authService, err := auth.NewService(auth.Config{}, tokenManager, storage.User())
	if err != nil {
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	circleService := circle.NewService(storage)
	checkInService := checkin.NewService(storage.CheckIn())
	clipService := clip.NewService(storage)
	journalService := journal.NewService(storage.Journal())

	mux := handlers.NewRouter(
		tokenManager,
		storage.Member(),
		authService,
		circleService,
		checkInService,
		clipService,
		journalService,
		log,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		Logger:     log,
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
			s.Logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.Logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.Logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
