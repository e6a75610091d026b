package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edukids/cobranca-api/internal/config"
	"github.com/edukids/cobranca-api/internal/domain"
	"github.com/edukids/cobranca-api/internal/handler"
	"github.com/edukids/cobranca-api/internal/infra/archive"
	"github.com/edukids/cobranca-api/internal/infra/cache"
	"github.com/edukids/cobranca-api/internal/infra/observability"
	"github.com/edukids/cobranca-api/internal/infra/postgres"
	"github.com/edukids/cobranca-api/internal/infra/resilience"
	"github.com/edukids/cobranca-api/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("archive_dir", cfg.ArchiveDir),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Int("retorno_max_concurrency", cfg.RetornoMaxConcurrency),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "cobranca-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.RetornoMaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("postgres")
	bulkhead := resilience.NewBulkhead(cfg.RetornoMaxConcurrency)

	// --- Postgres ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := postgres.NewClient(ctx, cfg.DatabaseURL, cb, resilienceCfg, metrics, logger)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = store.EnsureSchema(ctx)
	cancel()
	if err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}

	// --- Archive ---
	arquivos, err := archive.NewStore(cfg.ArchiveDir, logger)
	if err != nil {
		logger.Fatal("failed to init archive dir", zap.Error(err))
	}

	// --- Cache ---
	configCache := cache.New[*domain.Configuracao](cfg.CacheTTL)

	// --- Services ---
	svcs := handler.Services{
		Clientes:     service.NewClientesService(store, metrics, logger),
		Cobrancas:    service.NewCobrancasService(store, metrics, logger),
		Configuracao: service.NewConfiguracaoService(store, configCache, metrics, logger),
		Retorno:      service.NewRetornoService(store, bulkhead, metrics, logger),
		Remessa:      service.NewRemessaService(store, arquivos, metrics, logger),
	}

	// --- Router ---
	router := handler.NewRouter(svcs, store, metrics, logger, cfg.CORSAllowedOrigins)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
