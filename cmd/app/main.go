package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repurpose/internal/api/v1/router"
	"repurpose/internal/config"
	"repurpose/internal/logger"
	"repurpose/internal/service"

	"github.com/joho/godotenv"
)

// @title Repurpose API
// @version 1.0
// @description Turns articles into Twitter threads, LinkedIn posts and Threads posts.
// @host localhost:8080
// @BasePath /
// @Schemes http https

func main() {
	// 1. Load configuration
	envErr := godotenv.Load()
	logger := logger.New()
	if envErr != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	ctx := context.Background()

	// 2. Fill missing credentials from Secret Manager
	if cfg.GCPProjectID != "" {
		secrets, err := service.NewSecretManagerService(ctx, cfg.GCPProjectID)
		if err != nil {
			logger.Warn().Err(err).Msg("Secret Manager unavailable; using environment credentials only")
		} else {
			service.ResolveCredentials(ctx, cfg, secrets, logger)
			_ = secrets.Close()
		}
	}

	// 3. Build router
	r, closer, err := router.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to build router: %v", err)
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to release resources")
		}
	}()

	// 4. Create HTTP server. Write timeout covers the article fetch plus the LLM call.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.FetchTimeout() + cfg.LLMTimeout() + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Start server in a goroutine
	go func() {
		logger.Info().Msgf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s\n", err)
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return
	}
	logger.Info().Msg("Server shut down gracefully")
}
