package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edcellence/edpex-engine/internal/cache"
	"github.com/edcellence/edpex-engine/internal/config"
	"github.com/edcellence/edpex-engine/internal/database"
	"github.com/edcellence/edpex-engine/internal/monitoring"
	"github.com/edcellence/edpex-engine/internal/rankings"
	"github.com/edcellence/edpex-engine/internal/ratelimit"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.FromEnv()

	weights, err := config.LoadWeightProfile(cfg.WeightProfile)
	if err != nil {
		slog.Error("Failed to load weight profile", "path", cfg.WeightProfile, "error", err)
		os.Exit(1)
	}

	db, err := database.NewDB(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := database.NewRepository(db)
	rankingService := rankings.NewService(repo)

	redisClient, err := ratelimit.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		// Degraded but functional: the limiter falls back to memory
		slog.Warn("Redis unavailable", "error", err)
	}
	defer redisClient.Close()

	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.DefaultConfig(), appMetrics)
	appCache := cache.NewCache(15 * time.Minute)

	r := setupRouter(&serverDeps{
		weights:  weights,
		db:       db,
		repo:     repo,
		rankings: rankingService,
		cache:    appCache,
		metrics:  appMetrics,
		logger:   appLogger,
		limiter:  limiter,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}
