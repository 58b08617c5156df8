package main

import (
	"context"

	"cloud.google.com/go/storage"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cementops-poc/server/internal/core"
	"github.com/cementops-poc/server/internal/httpapi"
	"github.com/cementops-poc/server/internal/vision"
	"github.com/cementops-poc/server/pkg/gemini"
	logx "github.com/cementops-poc/server/pkg/logger"
)

// AppConfig defines all configurable parameters for the kiln image analysis
// service, sourced from environment variables.
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Port        int    `envconfig:"PORT" default:"8080"`

	Gemini gemini.Config
	Vision vision.Config
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("could not load .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("failed to process environment config")
	}
	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	genaiClient, err := gemini.NewClient(ctx, cfg.Gemini)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise Gemini client")
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise Cloud Storage client")
	}
	defer storageClient.Close()

	e := httpapi.New("kiln-vision", "")
	h := &vision.Handler{
		Generator: &vision.GeminiGenerator{Client: genaiClient, Model: cfg.Gemini.Model},
		Lister:    vision.NewGCSImageLister(storageClient),
		Config:    cfg.Vision,
	}
	h.Register(e)

	logx.Info().Int("port", cfg.Port).Str("bucket", cfg.Vision.Bucket).Msg("kiln-vision listening")
	if err := httpapi.Serve(e, cfg.Port); err != nil {
		logx.Fatal().Err(err).Msg("server terminated")
	}
}
