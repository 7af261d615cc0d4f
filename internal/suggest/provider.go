// Package suggest asks an LLM for activity ideas and cleans up the answer.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrDisabled is returned when no provider API key is configured.
var ErrDisabled = errors.New("suggestions: llm api key not configured")

// Provider completes a single system+user prompt.
type Provider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAIProvider talks to any OpenAI-compatible chat completion API.
type OpenAIProvider struct {
	model  string
	client *openai.Client
}

// NewOpenAIProvider returns a provider for model. baseURL may be empty for
// the public OpenAI endpoint, or point at a compatible server
// (e.g. http://localhost:11434/v1).
func NewOpenAIProvider(apiKey, baseURL, model string) (*OpenAIProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrDisabled
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAIProvider{
		model:  strings.TrimSpace(model),
		client: openai.NewClientWithConfig(cfg),
	}, nil
}

// Complete implements Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
