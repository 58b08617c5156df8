package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cementops-poc/server/internal/core"
	"github.com/cementops-poc/server/internal/httpapi"
	"github.com/cementops-poc/server/internal/predict"
	logx "github.com/cementops-poc/server/pkg/logger"
	pkgredis "github.com/cementops-poc/server/pkg/redis"
)

// defaultEndpointID is the deployed kiln thermal energy regression model.
const defaultEndpointID = "8596851619650338816"

// AppConfig defines all configurable parameters for the kiln thermal energy
// prediction service.
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Port        int    `envconfig:"PORT" default:"8080"`
	CacheTTL    string `envconfig:"PREDICTION_CACHE_TTL" default:"5m"`

	Endpoint predict.EndpointConfig
	Redis    pkgredis.Config
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

	if cfg.Endpoint.EndpointID == "" {
		cfg.Endpoint.EndpointID = defaultEndpointID
	}

	var predictor predict.Predictor
	if cfg.Endpoint.Configured() {
		vp, err := predict.NewVertexPredictor(ctx, cfg.Endpoint)
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to initialise Vertex AI predictor")
		}
		defer vp.Close()
		predictor = vp
		logx.Info().Str("endpoint", cfg.Endpoint.EndpointID).Msg("Vertex AI endpoint initialised")
	} else {
		logx.Warn().Msg("Vertex AI endpoint not configured; predictions will be unavailable")
	}

	var cache predict.Cache
	if cfg.Redis.Enabled() {
		ttl, err := time.ParseDuration(cfg.CacheTTL)
		if err != nil {
			logx.Fatal().Err(err).Str("ttl", cfg.CacheTTL).Msg("invalid PREDICTION_CACHE_TTL")
		}
		rdb, err := cfg.Redis.New()
		if err != nil {
			logx.Fatal().Err(err).Msg("failed to initialise Redis client")
		}
		defer rdb.Close()
		cache = predict.NewRedisCache(rdb, ttl)
		logx.Info().Dur("ttl", ttl).Msg("prediction cache enabled")
	}

	e := httpapi.New("predict-thermal", "")
	h := &predict.Handler{KPI: predict.ThermalEnergy, Predictor: predictor, Cache: cache}
	h.Register(e)

	logx.Info().Int("port", cfg.Port).Str("kpi", predict.ThermalEnergy.Name).Msg("predict-thermal listening")
	if err := httpapi.Serve(e, cfg.Port); err != nil {
		logx.Fatal().Err(err).Msg("server terminated")
	}
}
