package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cementops-poc/server/internal/core"
	"github.com/cementops-poc/server/internal/httpapi"
	"github.com/cementops-poc/server/internal/recommend"
	"github.com/cementops-poc/server/pkg/gemini"
	logx "github.com/cementops-poc/server/pkg/logger"
)

// temperature stays low so identical process states yield stable advice.
const temperature = 0.1

// AppConfig defines all configurable parameters for the prescriptive
// recommendation service.
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Port        int    `envconfig:"PORT" default:"8080"`

	Gemini gemini.Config
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

	client, err := gemini.NewClient(ctx, cfg.Gemini)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise Gemini client")
	}

	chatModel, err := gemini.NewChatModel(ctx, client, cfg.Gemini, temperature)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise chat model")
	}

	e := httpapi.New("recommend", "llm-prescriptive-recommendations")
	h := &recommend.Handler{Model: chatModel}
	h.Register(e)

	logx.Info().Int("port", cfg.Port).Str("model", cfg.Gemini.Model).Msg("recommend listening")
	if err := httpapi.Serve(e, cfg.Port); err != nil {
		logx.Fatal().Err(err).Msg("server terminated")
	}
}
