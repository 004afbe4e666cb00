package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/flight-intent/cmd/mainconfig"
	"github.com/wolfman30/flight-intent/internal/api/router"
	"github.com/wolfman30/flight-intent/internal/app/bootstrap"
	"github.com/wolfman30/flight-intent/internal/archive"
	appconfig "github.com/wolfman30/flight-intent/internal/config"
	"github.com/wolfman30/flight-intent/internal/conversation"
	"github.com/wolfman30/flight-intent/internal/extraction"
	httpmiddleware "github.com/wolfman30/flight-intent/internal/http/middleware"
	"github.com/wolfman30/flight-intent/internal/observability/metrics"
	"github.com/wolfman30/flight-intent/internal/webchat"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

type appMetrics struct {
	handler      http.Handler
	extraction   *metrics.ExtractionMetrics
	conversation *metrics.ConversationMetrics
}

func setupMetrics() appMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return appMetrics{
		handler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		extraction:   metrics.NewExtractionMetrics(reg),
		conversation: metrics.NewConversationMetrics(reg),
	}
}

func readinessChecks(redisClient *redis.Client, pool *pgxpool.Pool) map[string]router.ReadinessCheck {
	checks := map[string]router.ReadinessCheck{}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	if pool != nil {
		checks["postgres"] = pool.Ping
	}
	return checks
}

func buildArchiver(ctx context.Context, cfg *appconfig.Config, pool *pgxpool.Pool, logger *logging.Logger) (archive.Archiver, error) {
	var s3Client archive.S3API
	if cfg.ArchiveBucket != "" {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		s3Client = mainconfig.NewS3Client(awsCfg, cfg)
	}
	return bootstrap.BuildArchiver(cfg, pool, s3Client, logger), nil
}

func main() {
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	logger.Info("starting flight-intent API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := setupMetrics()

	llmClient, closeLLM, err := mainconfig.NewLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to configure LLM client", "error", err)
		os.Exit(1)
	}
	defer closeLLM()
	extractor := mainconfig.NewExtractor(cfg, logger, llmClient, extraction.WithObserver(m.extraction))

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
	}
	store := bootstrap.BuildSessionStore(redisClient, cfg, logger)

	pool := bootstrap.BuildPostgresPool(ctx, cfg, logger)
	if pool != nil {
		defer pool.Close()
	}
	archiver, err := buildArchiver(ctx, cfg, pool, logger)
	if err != nil {
		logger.Error("failed to configure intent archive", "error", err)
		os.Exit(1)
	}

	service := conversation.NewService(extractor, store,
		conversation.WithArchiver(archiver),
		conversation.WithMetrics(m.conversation),
		conversation.WithServiceLogger(logger),
	)

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.RunSweeper(ctx, time.Minute)

	// Setup router
	r := router.New(&router.Config{
		Logger:              logger,
		ConversationHandler: conversation.NewHandler(service, extractor, logger),
		ChatHandler:         webchat.NewHandler(service, logger),
		MetricsHandler:      m.handler,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		JWTSecret:           cfg.APIJWTSecret,
		RateLimiter:         limiter,
		ReadinessChecks:     readinessChecks(redisClient, pool),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}
