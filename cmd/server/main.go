package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpAdapter "github.com/tellergo/teller/internal/adapter/http"
	"github.com/tellergo/teller/internal/adapter/http/handler"
	"github.com/tellergo/teller/internal/adapter/http/middleware"
	postgresRepo "github.com/tellergo/teller/internal/adapter/repository/postgres"
	redisRepo "github.com/tellergo/teller/internal/adapter/repository/redis"
	"github.com/tellergo/teller/internal/infrastructure/config"
	"github.com/tellergo/teller/internal/infrastructure/logger"
	"github.com/tellergo/teller/internal/infrastructure/metrics"
	"github.com/tellergo/teller/internal/infrastructure/postgres"
	"github.com/tellergo/teller/internal/infrastructure/redis"
	"github.com/tellergo/teller/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	userRepo := postgresRepo.NewUserRepository(pool)
	sessionRepo := postgresRepo.NewSessionRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	tokenGen := postgresRepo.NewUUIDTokenGenerator()
	retrier := postgresRepo.NewRetrier(log)

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, txnRepo, idGen, retrier)
	directoryUC := usecase.NewDirectoryUseCase(accountRepo, idGen, retrier)
	userUC := usecase.NewUserUseCase(userRepo, idGen)
	sessionUC := usecase.NewSessionUseCase(sessionRepo, userRepo, tokenGen, cfg.SessionTTL, log)

	go sessionUC.RunSweeper(ctx, cfg.SessionSweepInterval)

	// HTTP surface
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:    handler.NewAuthHandler(userUC, sessionUC, m),
		AccountHandler: handler.NewAccountHandler(directoryUC, m),
		LedgerHandler:  handler.NewLedgerHandler(ledgerUC, directoryUC, m),
		BankerHandler:  handler.NewBankerHandler(userUC, directoryUC, ledgerUC),
		HealthHandler:  handler.NewHealthHandler(pool, redisClient),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),

		Authenticator: middleware.NewAuthenticator(sessionUC),
		Logging:       middleware.NewLoggingMiddleware(log),
		Metrics:       middleware.NewMetricsMiddleware(m),
		Recovery:      middleware.NewRecoveryMiddleware(log),
		LoginLimiter:  middleware.NewRateLimiter(cfg.LoginRatePerSecond, cfg.LoginRateBurst),

		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
