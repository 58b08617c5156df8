package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cementops-poc/server/internal/core"
	"github.com/cementops-poc/server/internal/simulate"
	logx "github.com/cementops-poc/server/pkg/logger"
)

// AppConfig defines all configurable parameters for the generator, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	Datagen simulate.Config
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("could not load .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}
	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	if cfg.Datagen.Rows <= 0 {
		logx.Fatal().Int("rows", cfg.Datagen.Rows).Msg("row count must be positive")
	}

	start := time.Now()
	logx.Info().
		Int("rows", cfg.Datagen.Rows).
		Int("interval_minutes", cfg.Datagen.IntervalMinutes).
		Int64("seed", cfg.Datagen.Seed).
		Msg("generating synthetic plant data")

	data := simulate.Generate(cfg.Datagen)

	if err := data.WriteFile(cfg.Datagen.OutPath); err != nil {
		logx.Error().Err(err).Str("path", cfg.Datagen.OutPath).Msg("failed to write dataset")
		os.Exit(1)
	}

	logx.Info().
		Str("path", cfg.Datagen.OutPath).
		Int("rows", data.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("dataset written")
}
