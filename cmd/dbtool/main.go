package main

import (
	"context"
	"shop-directory-service/internal/adapters/repositories"
	"shop-directory-service/internal/config"
	"shop-directory-service/internal/platform/logging"
	"time"

	"github.com/rs/zerolog/log"
)

// main initializes the fixture store and seeds it, then exits.
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fixtures, err := repositories.OpenFixtures(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}
	defer fixtures.Close()

	logger.Info().Str("backend", fixtures.Backend).Msg("initializing schema")
	if err := fixtures.Init(ctx); err != nil {
		logger.Fatal().Err(err).Msg("schema initialization failed")
	}
	logger.Info().Msg("schema ready")

	logger.Info().Str("seed", cfg.SeedPath).Msg("seeding")
	n, err := fixtures.Seed(ctx, cfg.SeedPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("seeding failed")
	}
	logger.Info().Int("shops", n).Msg("seeding complete")
}
