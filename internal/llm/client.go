package llm

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/noah-isme/mentor-connect-api/pkg/config"
)

// New builds a chat-completion client for the configured provider. Groq exposes
// an OpenAI-compatible API, so the openai client with a base URL override
// covers it (and any other compatible provider).
func New(cfg config.LLMConfig) (llms.Model, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: missing API key")
	}

	client, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("llm: init client: %w", err)
	}
	return client, nil
}
