package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/fleetledger/internal/adapter/http"
	"github.com/iho/fleetledger/internal/adapter/http/handler"
	postgresRepo "github.com/iho/fleetledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/fleetledger/internal/adapter/repository/redis"
	"github.com/iho/fleetledger/internal/infrastructure/config"
	"github.com/iho/fleetledger/internal/infrastructure/eventpublisher"
	"github.com/iho/fleetledger/internal/infrastructure/logger"
	"github.com/iho/fleetledger/internal/infrastructure/metrics"
	"github.com/iho/fleetledger/internal/infrastructure/postgres"
	"github.com/iho/fleetledger/internal/infrastructure/redis"
	"github.com/iho/fleetledger/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.SetGlobalLevel(log.Logger.GetLevel())

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	log.Info().Msg("migrations applied")

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	clientRepo := postgresRepo.NewClientRepository(pool)
	builtyRepo := postgresRepo.NewBuiltyRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	tripRepo := postgresRepo.NewTripRepository(pool)
	truckRepo := postgresRepo.NewTruckRepository(pool)
	driverRepo := postgresRepo.NewDriverRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	incomeRepo := postgresRepo.NewIncomeRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	retrier := postgresRepo.NewRetrier(log.Logger, m)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Initialize use cases
	reconciler := usecase.NewReconciliationUseCase(
		txManager, clientRepo, builtyRepo, paymentRepo, outboxRepo, idGen, retrier, cache, m)
	builtyUC := usecase.NewBuiltyUseCase(
		builtyRepo, clientRepo, tripRepo, reconciler, idGen, log.Logger, m, cfg.CreditEnforce)
	paymentUC := usecase.NewPaymentUseCase(
		txManager, paymentRepo, clientRepo, builtyRepo, reconciler, idGen)
	clientUC := usecase.NewClientUseCase(txManager, clientRepo, builtyRepo, outboxRepo, idGen)
	tripUC := usecase.NewTripUseCase(
		txManager, tripRepo, truckRepo, driverRepo, expenseRepo, incomeRepo,
		builtyRepo, paymentRepo, outboxRepo, idGen, cache)
	reportUC := usecase.NewReportUseCase(clientRepo, builtyRepo, cache)

	// Initialize handlers
	clientHandler := handler.NewClientHandler(clientUC)
	builtyHandler := handler.NewBuiltyHandler(builtyUC)
	paymentHandler := handler.NewPaymentHandler(paymentUC)
	tripHandler := handler.NewTripHandler(tripUC)
	fleetHandler := handler.NewFleetHandler(tripUC)
	reportHandler := handler.NewReportHandler(reportUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		ClientHandler:    clientHandler,
		BuiltyHandler:    builtyHandler,
		PaymentHandler:   paymentHandler,
		TripHandler:      tripHandler,
		FleetHandler:     fleetHandler,
		ReportHandler:    reportHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		Logger:           log.Logger,
	})

	// Start outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()
	outboxPublisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(log.Logger),
		Logger:     log.Logger,
		Metrics:    m,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := outboxPublisher.Start(publisherCtx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("outbox publisher stopped")
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPublisher()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
