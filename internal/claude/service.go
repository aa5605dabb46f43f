// Package claude wraps the Anthropic completion API for the clinical
// analysis endpoints and post-processes the model's text output.
package claude

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/schema"

	"github.com/t4n15hq/luminari-be/internal/config"
)

// ErrNotConfigured is returned when no API credential is present.
var ErrNotConfigured = errors.New("claude API key not configured")

// Completer produces a raw completion for a system prompt and task body.
// Service implements it; handler tests substitute a fake.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, content string) (string, error)
}

// Service calls the Anthropic API with a fixed model, token budget and
// sampling temperature.
type Service struct {
	llm         llms.Model
	model       string
	maxTokens   int
	temperature float64
}

// NewService creates a Service from configuration. Fails when the
// credential is missing so the caller can surface a configuration error.
func NewService(cfg config.ClaudeConfig) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	llm, err := anthropic.New(
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("create anthropic client: %w", err)
	}

	return &Service{
		llm:         llm,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends the system prompt and caller content to the API and
// returns the raw text of the first choice. Upstream failures are wrapped
// with the upstream message preserved.
func (s *Service) Complete(ctx context.Context, systemPrompt, content string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, content),
	}

	resp, err := s.llm.GenerateContent(ctx, messages,
		llms.WithModel(s.model),
		llms.WithMaxTokens(s.maxTokens),
		llms.WithTemperature(s.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("claude API returned no content")
	}

	return resp.Choices[0].Content, nil
}
