package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bank-ledger/config"
	httpHandler "bank-ledger/internal/adapter/http/handler"
	memStorage "bank-ledger/internal/adapter/storage/memory"
	pgStorage "bank-ledger/internal/adapter/storage/postgres"
	redisStorage "bank-ledger/internal/adapter/storage/redis"
	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"
	"bank-ledger/internal/service"
	"bank-ledger/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// A missing .env is fine; the environment and config file still apply.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(os.Getenv("LEDGER_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Store.Driver).
		Msg("Starting Bank Ledger")

	loc, err := cfg.Clock.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid clock timezone")
	}
	clock := domain.NewSystemClock(loc)

	ctx := context.Background()

	repo, checkers, closeStore, err := openStore(ctx, cfg, clock, log)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("Failed to open account store")
	}
	defer closeStore()

	accountSvc := service.NewAccountService(repo, clock, service.NewTextStatementFormatter(), log)

	apiSpec, err := os.ReadFile(cfg.Server.APIDocs)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Server.APIDocs).Msg("OpenAPI document not found, /swagger/spec will answer 404")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AccountSvc:     accountSvc,
		HealthCheckers: checkers,
		HealthTimeout:  cfg.Store.HealthTimeout,
		APISpec:        apiSpec,
		Logger:         log,
		Mode:           cfg.Server.Mode,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openStore builds the account repository selected by store.driver together
// with its health checkers and a cleanup func.
func openStore(
	ctx context.Context,
	cfg *config.Config,
	clock domain.Clock,
	log zerolog.Logger,
) (ports.AccountRepository, []ports.HealthChecker, func(), error) {
	switch cfg.Store.Driver {
	case config.StorePostgres:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := pgStorage.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		repo := pgStorage.NewAccountRepo(pool, clock)
		return repo, []ports.HealthChecker{repo}, pool.Close, nil

	case config.StoreRedis:
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return nil, nil, nil, err
		}
		store := redisStorage.NewAccountStore(rdb, clock, cfg.Redis.MaxRetries)
		return store, []ports.HealthChecker{store}, func() { _ = rdb.Close() }, nil

	default:
		repo := memStorage.NewAccountRepo()
		return repo, []ports.HealthChecker{repo}, func() {}, nil
	}
}
