package llm

import (
	"context"
	"errors"
	"fmt"
)

// Errors shared by the provider clients
var (
	ErrMissingAPIKey = errors.New("API key is required")
	ErrEmptyResponse = errors.New("no content in response")
	ErrBlocked       = errors.New("response blocked by provider")
)

// Client is a text-generation backend used for resume feedback
type Client interface {
	// GenerateContent sends prompt to the model of tier and returns the reply text
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GetModel returns the provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates the client of config.Provider. A nil config selects Gemini defaults.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderOpenRouter:
		return NewOpenRouterClient(config, apiKey)
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}
