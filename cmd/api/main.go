package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-exchange/api"
	"asset-exchange/config"
	httpHandler "asset-exchange/internal/adapter/http/handler"
	"asset-exchange/internal/adapter/metrics"
	pgStorage "asset-exchange/internal/adapter/storage/postgres"
	"asset-exchange/internal/adapter/storage/postgres/migrations"
	redisStorage "asset-exchange/internal/adapter/storage/redis"
	"asset-exchange/internal/core/domain"
	"asset-exchange/internal/core/ports"
	"asset-exchange/internal/service"
	"asset-exchange/pkg/logger"
	"asset-exchange/pkg/telemetry"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config:\n%v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	contract, err := domain.ParseName(cfg.Ledger.ContractAccount)
	if err != nil {
		log.Fatal().Err(err).Str("contract_account", cfg.Ledger.ContractAccount).Msg("Invalid contract account")
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("contract", contract.String()).
		Msg("Starting asset exchange ledger")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up tracing")
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	if err := pgStorage.ApplyMigrations(ctx, pool, migrations.FS); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}
	log.Info().Msg("PostgreSQL connected and migrated")

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	accountRepo := pgStorage.NewAccountRepo(pool)
	receiptRepo := pgStorage.NewReceiptRepo(pool)
	queue := redisStorage.NewDeferredQueue(rdb, cfg.Scheduler.Lease)
	recorder := metrics.NewRecorder()
	recorder.WatchBacklog(queue.Len)

	ledgerSvc := service.NewLedgerService(service.LedgerDeps{
		Descriptors: pgStorage.NewDescriptorRepo(pool),
		Balances:    pgStorage.NewBalanceRepo(pool),
		Accounts:    accountRepo,
		Receipts:    receiptRepo,
		Transactor:  pgStorage.NewTransactor(pool),
		Auth:        service.NewContextAuthorizer(),
		Scheduler:   queue,
		Notifier:    redisStorage.NewNotifier(rdb),
		Observer:    recorder,
	}, contract, cfg.Scheduler.MaxDelay, logger.Component(log, "ledger"))

	created, err := accountRepo.Create(ctx, &domain.Account{Name: contract, CreatedAt: time.Now().UTC()})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register contract account")
	}
	if created {
		log.Info().Str("account", contract.String()).Msg("Contract account registered")
	}

	worker := service.NewSettlementWorker(queue, ledgerSvc, receiptRepo, recorder, service.SettlementConfig{
		PollInterval: cfg.Scheduler.PollInterval,
		BatchSize:    cfg.Scheduler.BatchSize,
		MaxPerSecond: cfg.Scheduler.MaxPerSecond,
	}, logger.Component(log, "settlement"))

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(ctx)
	}()

	auditSvc := service.NewAuditService(pgStorage.NewAuditRepo(pool), logger.Component(log, "audit"))

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		Ledger:         ledgerSvc,
		TokenSvc:       service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer),
		RateLimitStore: redisStorage.NewRateLimitStore(rdb),
		HealthCheckers: []ports.HealthChecker{pgStorage.NewHealthCheck(pool), redisStorage.NewHealthCheck(rdb)},
		AuditSvc:       auditSvc,
		Metrics:        recorder,
		MetricsHandler: recorder.Handler(),
		OpenAPISpec:    api.Spec,
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	auditSvc.Close()
	<-workerDone
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Server exited")
}
