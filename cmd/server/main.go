package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/finbook/finbook/internal/adapter/http"
	"github.com/finbook/finbook/internal/adapter/http/handler"
	postgresRepo "github.com/finbook/finbook/internal/adapter/repository/postgres"
	redisRepo "github.com/finbook/finbook/internal/adapter/repository/redis"
	"github.com/finbook/finbook/internal/infrastructure/auth"
	"github.com/finbook/finbook/internal/infrastructure/config"
	"github.com/finbook/finbook/internal/infrastructure/eventpublisher"
	"github.com/finbook/finbook/internal/infrastructure/logger"
	"github.com/finbook/finbook/internal/infrastructure/metrics"
	"github.com/finbook/finbook/internal/infrastructure/postgres"
	"github.com/finbook/finbook/internal/infrastructure/redis"
	"github.com/finbook/finbook/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger
	zerolog.DefaultContextLogger = &appLogger

	ctx := context.Background()

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

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

	// Metrics
	appMetrics := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	documentRepo := postgresRepo.NewDocumentRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	bankRepo := postgresRepo.NewBankAccountRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// Initialize use cases
	postingUC := usecase.NewPostingUseCase(txManager, ledgerRepo, outboxRepo, idGen).WithRetrier(retrier).WithMetrics(appMetrics)
	balanceUC := usecase.NewBalanceUseCase(accountRepo, ledgerRepo, bankRepo, appLogger)
	accountUC := usecase.NewAccountUseCase(accountRepo, bankRepo, idGen).WithMetrics(appMetrics)
	documentUC := usecase.NewDocumentUseCase(txManager, documentRepo, postingUC, outboxRepo, idGen).WithRetrier(retrier).WithMetrics(appMetrics)
	paymentUC := usecase.NewPaymentUseCase(txManager, paymentRepo, documentRepo, bankRepo, postingUC, outboxRepo, idGen).WithRetrier(retrier).WithMetrics(appMetrics)
	voidUC := usecase.NewVoidUseCase(txManager, documentRepo, postingUC, outboxRepo, idGen).WithRetrier(retrier).WithMetrics(appMetrics)
	cashUC := usecase.NewCashUseCase(txManager, bankRepo, postingUC, idGen).WithRetrier(retrier)
	reportUC := usecase.NewReportUseCase(accountRepo, ledgerRepo, cache, appLogger)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC)
	postingHandler := handler.NewPostingHandler(postingUC, balanceUC)
	documentHandler := handler.NewDocumentHandler(documentUC, voidUC)
	paymentHandler := handler.NewPaymentHandler(paymentUC)
	cashHandler := handler.NewCashHandler(cashUC)
	reportHandler := handler.NewReportHandler(reportUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Optional JWT auth
	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		log.Info().Msg("authentication enabled")
	}

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   accountHandler,
		PostingHandler:   postingHandler,
		DocumentHandler:  documentHandler,
		PaymentHandler:   paymentHandler,
		CashHandler:      cashHandler,
		ReportHandler:    reportHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		Metrics:          appMetrics,
		JWTManager:       jwtManager,
	})

	// Start outbox publisher
	publisherCtx, stopPublisher := context.WithCancel(ctx)
	defer stopPublisher()

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(nil),
		Metrics:    appMetrics,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
	})
	go func() {
		if err := publisher.Start(publisherCtx); err != nil && publisherCtx.Err() == nil {
			log.Error().Err(err).Msg("event publisher stopped")
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
