// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ad-video-pipeline/internal/application"
	"ad-video-pipeline/internal/config"
	"ad-video-pipeline/internal/domain/ports/repository"
	"ad-video-pipeline/internal/infra/logging"
	"ad-video-pipeline/internal/infra/metrics"
	red "ad-video-pipeline/internal/infra/redis"
	"ad-video-pipeline/internal/infra/runstore"
	"ad-video-pipeline/internal/infra/web"
	"ad-video-pipeline/internal/infra/worker"
	"ad-video-pipeline/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	// .env is optional; real env vars win
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, *devMode)

	app, err := application.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build pipeline")
	}

	// ---- Run registry (Redis when configured, else in-process) ----
	var (
		runRepo repository.RunRepository
		limiter web.RateLimiter
	)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis unavailable")
		}
		defer redisClient.Close()
		runRepo = red.NewRunRepo(redisClient, cfg.Redis.TTL)
		limiter = red.NewRateLimiter(redisClient)
		logger.Info().Str("addr", cfg.Redis.URL).Msg("run registry: redis")
	} else {
		runRepo = runstore.NewMemoryRepo()
		logger.Info().Msg("run registry: in-memory")
	}

	// ---- Workers ----
	pool := worker.NewPool(cfg.Server.Workers, logger)
	pool.Start(ctx)
	defer pool.Stop()

	runService := usecase.NewRunService(app.Pipeline, runRepo, pool, cfg.Server.RunTimeout, logger)

	// ---- HTTP API ----
	auth := web.NewAuthManager(cfg.Server.SessionSecret, !cfg.Runtime.Dev, "", cfg.Server.SessionTTL)
	srv := web.NewServer(runService, app.Store, auth, cfg.Server.APIKey, limiter, cfg.Redis.RatePerMinute, logger)

	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", apiServer.Addr).Msg("api listening")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("api server error")
		}
	}()

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", metricsServer.Addr).Msg("metrics listening")
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api shutdown")
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("metrics shutdown")
	}
	cancel()
}
