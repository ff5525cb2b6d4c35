package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmarins/onboarding-api/internal/config"
	"github.com/tmarins/onboarding-api/internal/domain"
	"github.com/tmarins/onboarding-api/internal/handler"
	"github.com/tmarins/onboarding-api/internal/infra/observability"
	"github.com/tmarins/onboarding-api/internal/infra/resilience"
	"github.com/tmarins/onboarding-api/internal/infra/storage"
	"github.com/tmarins/onboarding-api/internal/infra/supabase"
	"github.com/tmarins/onboarding-api/internal/service"

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
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("jwt_access_ttl", cfg.JWTAccessTTL),
		zap.String("upload_dir", cfg.UploadDir),
		zap.Int("max_attachments", cfg.MaxAttachments),
		zap.Bool("submit_any_role", cfg.SubmitAnyRole),
	)

	if cfg.SupabaseURL == "" {
		logger.Fatal("SUPABASE_URL is required")
	}

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "onboarding-api")
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
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("supabase")

	// --- Stores ---
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

	fileStore, err := storage.NewLocalStore(cfg.UploadDir, cfg.MaxConcurrency, logger)
	if err != nil {
		logger.Fatal("failed to init upload dir", zap.Error(err))
	}

	// --- Services ---
	policy := domain.NewPolicy(cfg.SubmitAnyRole)
	authSvc := service.NewAuthService(supabaseClient, cfg.JWTSecret, cfg.JWTAccessTTL, logger)
	custSvc := service.NewCustomerService(supabaseClient, supabaseClient, policy, metrics, logger)
	userSvc := service.NewUserService(supabaseClient, policy, logger)

	// --- Router ---
	router := handler.NewRouter(
		authSvc,
		custSvc,
		userSvc,
		fileStore,
		supabaseClient,
		handler.Options{UploadDir: fileStore.Dir(), MaxAttachments: cfg.MaxAttachments},
		metrics,
		logger,
	)

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
