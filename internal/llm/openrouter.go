package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/eduardolat/openroutergo"
)

// OpenRouterClient implements Client on top of the OpenRouter chat completions API
type OpenRouterClient struct {
	client *openroutergo.Client
	config *Config
}

// NewOpenRouterClient creates a new OpenRouter client
func NewOpenRouterClient(config *Config, apiKey string) (*OpenRouterClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := openroutergo.
		NewClient().
		WithAPIKey(apiKey).
		Create()
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenRouter client: %w", err)
	}

	return &OpenRouterClient{client: client, config: config}, nil
}

type completionResult struct {
	text string
	err  error
}

// GenerateContent generates text content using the specified model tier.
// The underlying request is not cancellable, so ctx only bounds how long the caller waits.
func (c *OpenRouterClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	done := make(chan completionResult, 1)
	go func() {
		text, err := c.complete(modelName, prompt)
		done <- completionResult{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("failed to generate content: %w", ctx.Err())
	case res := <-done:
		return res.text, res.err
	}
}

func (c *OpenRouterClient) complete(modelName, prompt string) (string, error) {
	completion := c.client.
		NewChatCompletion().
		WithModel(modelName)
	if c.config.SystemInstruction != "" {
		completion = completion.WithSystemMessage(c.config.SystemInstruction)
	}

	_, resp, err := completion.
		WithUserMessage(prompt).
		Execute()
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// GetModel returns the model name for a tier
func (c *OpenRouterClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the OpenRouter client holds no long-lived resources
func (c *OpenRouterClient) Close() error {
	return nil
}
