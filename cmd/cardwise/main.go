package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardwise/cardwise-api/internal/catalog"
	"github.com/cardwise/cardwise-api/internal/config"
	"github.com/cardwise/cardwise-api/internal/handler"
	"github.com/cardwise/cardwise-api/internal/infra/cache"
	"github.com/cardwise/cardwise-api/internal/infra/observability"
	"github.com/cardwise/cardwise-api/internal/infra/resilience"
	"github.com/cardwise/cardwise-api/internal/infra/sqlitestore"
	"github.com/cardwise/cardwise-api/internal/infra/supabase"
	"github.com/cardwise/cardwise-api/internal/port"
	"github.com/cardwise/cardwise-api/internal/service"

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
		zap.Bool("use_supabase", cfg.UseSupabase),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("catalog_cache_ttl", cfg.CatalogCacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "cardwise-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Snapshot cache ---
	var snapshots port.SnapshotCache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewSnapshotRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CatalogCacheTTL, logger)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer redisCache.Close()
		snapshots = redisCache
		logger.Info("using redis snapshot cache", zap.String("addr", cfg.RedisAddr))
	} else {
		snapshots = cache.NewSnapshotMemory(cfg.CatalogCacheTTL)
		logger.Info("using in-memory snapshot cache")
	}

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("catalog-store")

	// --- Stores ---
	var catalogStore port.CatalogStore
	var profileStore port.ProfileStore

	if cfg.UseSupabase && cfg.SupabaseURL != "" {
		logger.Info("using Supabase as data backend",
			zap.String("supabase_url", cfg.SupabaseURL),
		)
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		supabaseClient := supabase.NewClient(
			httpClient,
			cfg.SupabaseURL,
			cfg.SupabaseAnonKey,
			cfg.SupabaseServiceKey,
			cb,
			resilienceCfg,
			logger,
		)
		catalogStore = supabaseClient
		profileStore = supabaseClient
	} else {
		logger.Info("using SQLite as data backend", zap.String("path", cfg.SQLitePath))
		store, err := sqlitestore.New(cfg.SQLitePath)
		if err != nil {
			logger.Fatal("failed to open sqlite store", zap.Error(err))
		}
		defer store.Close()

		// The SQLite backend ships with the built-in reference catalog.
		if err := store.Seed(context.Background(), catalog.Seed()); err != nil {
			logger.Fatal("failed to seed catalog", zap.Error(err))
		}
		catalogStore = store
		profileStore = store
	}

	// --- Services ---
	recSvc := service.NewRecommendation(catalogStore, snapshots, metrics, logger)
	profileSvc := service.NewProfile(profileStore, metrics, logger)

	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, profile routes are unauthenticated")
	}

	// --- Router ---
	router := handler.NewRouter(recSvc, profileSvc, metrics, logger, cfg.JWTSecret)

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
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
