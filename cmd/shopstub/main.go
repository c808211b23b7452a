package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"shop-directory-service/internal/adapters/repositories"
	"shop-directory-service/internal/api"
	"shop-directory-service/internal/config"
	"shop-directory-service/internal/platform/logging"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// main serves stored shop fixtures in the remote shops API's shape.
func main() {
	loadedEnv := config.LoadDotEnv()

	cfg, err := config.LoadStore()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if !loadedEnv {
		logger.Info().Msg("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fixtures, err := repositories.OpenFixtures(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}
	defer fixtures.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := fixtures.Init(ctx); err != nil {
		logger.Fatal().Err(err).Msg("init store")
	}
	n, err := fixtures.Seed(ctx, cfg.SeedPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed store")
	}
	logger.Info().Int("shops", n).Str("seed", cfg.SeedPath).Msg("store seeded")

	router := api.NewStubRouter(fixtures, cfg.APIPath)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().
		Str("addr", srv.Addr).
		Str("path", cfg.APIPath).
		Str("backend", fixtures.Backend).
		Msg("shop stub listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
