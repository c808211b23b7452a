package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"shop-directory-service/internal/adapters/shopapi"
	"shop-directory-service/internal/api"
	"shop-directory-service/internal/config"
	"shop-directory-service/internal/platform/logging"
	"shop-directory-service/internal/services"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

// main is the application composition root.
// It wires the shops API client behind ports and starts the HTTP server.
func main() {
	loadedEnv := config.LoadDotEnv()

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if !loadedEnv {
		logger.Info().Msg("no .env file found (using environment variables)")
	}

	client, err := shopapi.NewClient(
		cfg.ShopsAPIURL,
		shopapi.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
		shopapi.WithPath(cfg.ShopsAPIPath),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid shops API client")
	}

	ctrl := services.NewDirectoryController(client, logger)
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initial fetch on activation; failures are surfaced through the directory state.
	initial := ctrl.Start(ctx)
	go func() {
		if err := <-initial; err != nil {
			logger.Warn().Err(err).Msg("initial shop load did not complete")
		}
	}()

	router := api.NewRouter(ctrl)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.FetchTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctrl.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	logger.Info().
		Str("addr", srv.Addr).
		Str("shops_api", client.Endpoint()).
		Msg("server listening")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
