package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	redislib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/vaultbank/internal/adapter/http"
	"github.com/iho/vaultbank/internal/adapter/http/handler"
	"github.com/iho/vaultbank/internal/adapter/http/middleware"
	"github.com/iho/vaultbank/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/vaultbank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/vaultbank/internal/adapter/repository/redis"
	"github.com/iho/vaultbank/internal/infrastructure/auth"
	"github.com/iho/vaultbank/internal/infrastructure/config"
	"github.com/iho/vaultbank/internal/infrastructure/fraud"
	"github.com/iho/vaultbank/internal/infrastructure/logger"
	"github.com/iho/vaultbank/internal/infrastructure/metrics"
	"github.com/iho/vaultbank/internal/infrastructure/postgres"
	"github.com/iho/vaultbank/internal/infrastructure/redis"
	"github.com/iho/vaultbank/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx := context.Background()

	var (
		accountRepo     usecase.AccountRepository
		transactionRepo usecase.TransactionRepository
		txManager       usecase.TransactionManager
		retrier         usecase.Retrier
		cache           usecase.Cache
		idempotency     usecase.IdempotencyStore
		pool            *pgxpool.Pool
		redisClient     *redislib.Client
	)

	switch cfg.StoreBackend {
	case "memory":
		log.Info().Msg("using in-memory store backend")
		store := memory.NewStore()
		accountRepo = store
		transactionRepo = store.TransactionLog()
		txManager = store

	default:
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		pool, err = postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		log.Info().Msg("connected to postgres")

		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")

		accountRepo = postgresRepo.NewAccountRepository(pool)
		transactionRepo = postgresRepo.NewTransactionRepository(pool)
		txManager = postgresRepo.NewTxManager(pool)
		retrier = postgresRepo.NewRetrier()
		cache = redisRepo.NewCache(redisClient)
		idempotency = redisRepo.NewIdempotencyStore(redisClient)
	}

	idGen := postgresRepo.NewULIDGenerator()
	appMetrics := metrics.New(prometheus.DefaultRegisterer)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	gate := fraud.NewOracle()

	accountUC := usecase.NewAccountUseCase(accountRepo, idGen, cfg.InitialBalance)
	transactionUC := usecase.NewTransactionUseCase(transactionRepo)
	transferUC := usecase.NewTransferUseCase(
		txManager,
		accountRepo,
		transactionRepo,
		gate,
		idGen,
		retrier,
		cache,
		usecase.TransferConfig{
			HighValueThreshold:       cfg.HighValueThreshold,
			ExtraScrutinyThreshold:   cfg.ExtraScrutinyThreshold,
			FraudScoreBlockThreshold: cfg.FraudScoreBlockThreshold,
			FraudCheckTimeout:        cfg.FraudCheckTimeout,
		},
	)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(accountUC, jwtManager, appMetrics),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		TransferHandler:    handler.NewTransferHandler(transferUC, appMetrics),
		HealthHandler:      handler.NewHealthHandler(pool, redisClient),
		JWTManager:         jwtManager,
		IdempotencyStore:   idempotency,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, appMetrics),
		Logger:             &appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("backend", cfg.StoreBackend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
