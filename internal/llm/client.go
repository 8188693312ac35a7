// Package llm provides a unified client interface for text generation
// providers: OpenAI, Anthropic (Claude) and Google Gemini. The narrative
// layer uses it to write plane diaries and passenger stories.
package llm

import (
	"context"
	"errors"
)

// Provider types
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

// Default models per provider, used when no model is configured.
const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	DefaultGoogleModel    = "gemini-1.5-flash"
)

var ErrEmptyResponse = errors.New("empty response from provider")

// Model represents an available LLM model
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Prompt is one system + user exchange.
type Prompt struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Client interface for LLM providers
type Client interface {
	TestConnection(ctx context.Context) error
	ListModels(ctx context.Context) ([]Model, error)
	Generate(ctx context.Context, p Prompt) (string, error)
}

// NewClient factory function
func NewClient(provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey), nil
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey), nil
	case ProviderGoogle:
		return NewGoogleClient(apiKey), nil
	default:
		return nil, errors.New("unsupported provider: " + provider)
	}
}

// DefaultModel returns the model used for a provider when none is set.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return DefaultOpenAIModel
	case ProviderGoogle:
		return DefaultGoogleModel
	default:
		return DefaultAnthropicModel
	}
}
