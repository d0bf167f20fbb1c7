package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"github.com/travel-advisor/internal/pkg/metrics"
)

// Completer sends single-prompt (non-chat) completion requests.
type Completer struct {
	client  *openai.Client
	model   string
	metrics *metrics.Metrics
}

// NewCompleter returns a completer for the public OpenAI endpoint.
func NewCompleter(apiKey, model string, m *metrics.Metrics) *Completer {
	return NewCompleterWithConfig(openai.DefaultConfig(apiKey), model, m)
}

// NewCompleterWithConfig allows overriding the base URL and HTTP client.
func NewCompleterWithConfig(cfg openai.ClientConfig, model string, m *metrics.Metrics) *Completer {
	return &Completer{client: openai.NewClientWithConfig(cfg), model: model, metrics: m}
}

// Complete returns the text of the first choice.
func (c *Completer) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := c.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     c.model,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	})
	if err == nil && len(resp.Choices) == 0 {
		err = errors.New("completion returned no choices")
	}
	c.metrics.ObserveProvider("openai", "completion", err)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	return resp.Choices[0].Text, nil
}
