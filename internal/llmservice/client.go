package llmservice

import (
	"context"
	"fmt"
	"strings"

	"legal-assistant/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// New builds the hosted generative model client from config.
func New(ctx context.Context, cfg *config.LLMConfig, apiKey string) (llms.Model, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key (set %s)", cfg.KeyEnv)
	}
	switch cfg.Provider {
	case "googleai", "":
		return googleai.New(ctx,
			googleai.WithAPIKey(apiKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	case "openai":
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(apiKey, "Bearer ")),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(opts...)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// GenerateText sends a single user prompt and returns the model's text reply.
func GenerateText(ctx context.Context, model llms.Model, prompt string) (string, error) {
	log.Debug().Int("prompt_chars", len(prompt)).Msg("Generating content")

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	res, err := model.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return res.Choices[0].Content, nil
}
