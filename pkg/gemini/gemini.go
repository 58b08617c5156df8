package gemini

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	logx "github.com/cementops-poc/server/pkg/logger"
)

// Config selects how the Gemini client authenticates. An explicit API key
// wins; otherwise the client runs against Vertex AI using the ambient
// project credentials.
type Config struct {
	APIKey   string `envconfig:"GEMINI_API_KEY"`
	Project  string `envconfig:"GOOGLE_CLOUD_PROJECT"`
	Location string `envconfig:"REGION" default:"us-central1"`
	Model    string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
}

// NewClient builds the raw genai client. Constructed once at startup and
// passed into handlers; there is no lazy global.
func NewClient(ctx context.Context, cfg Config) (*genai.Client, error) {
	clientCfg := &genai.ClientConfig{}

	if cfg.APIKey != "" {
		clientCfg.APIKey = cfg.APIKey
		clientCfg.Backend = genai.BackendGeminiAPI
		logx.Info().Msg("gemini client using explicit API key")
	} else {
		clientCfg.Backend = genai.BackendVertexAI
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
		logx.Info().Str("project", cfg.Project).Str("location", cfg.Location).Msg("gemini client using Vertex AI backend")
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

// NewChatModel wraps the client in an eino chat model for text-only
// prompting.
func NewChatModel(ctx context.Context, client *genai.Client, cfg Config, temperature float32) (*gemini.ChatModel, error) {
	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat model: %w", err)
	}
	return chatModel, nil
}
