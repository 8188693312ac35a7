package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
	}
}

func (c *OpenAIClient) TestConnection(ctx context.Context) error {
	_, err := c.client.ListModels(ctx)
	return err
}

func (c *OpenAIClient) ListModels(ctx context.Context) ([]Model, error) {
	resp, err := c.client.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	var models []Model
	for _, m := range resp.Models {
		// chat models only
		if strings.HasPrefix(m.ID, "gpt-") && !strings.Contains(m.ID, "instruct") {
			models = append(models, Model{
				ID:   m.ID,
				Name: m.ID,
			})
		}
	}
	return models, nil
}

func (c *OpenAIClient) Generate(ctx context.Context, p Prompt) (string, error) {
	model := p.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: p.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: p.User,
			},
		},
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}
