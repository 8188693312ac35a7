package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

type GoogleClient struct {
	apiKey string
}

func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		apiKey: apiKey,
	}
}

func (c *GoogleClient) TestConnection(ctx context.Context) error {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return err
	}
	defer client.Close()

	// List models to verify connection
	iter := client.ListModels(ctx)
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return err
	}
	return nil
}

func (c *GoogleClient) ListModels(ctx context.Context) ([]Model, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, err
	}
	defer client.Close()

	var models []Model
	iter := client.ListModels(ctx)
	for {
		m, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if m.Name != "" {
			models = append(models, Model{
				ID:          m.Name,
				Name:        m.DisplayName,
				Description: m.Description,
			})
		}
	}

	return models, nil
}

func (c *GoogleClient) Generate(ctx context.Context, p Prompt) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	modelName := strings.TrimPrefix(p.Model, "models/")
	if modelName == "" {
		modelName = DefaultGoogleModel
	}

	genModel := client.GenerativeModel(modelName)
	if p.System != "" {
		genModel.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(p.System)}}
	}
	if p.Temperature > 0 {
		genModel.SetTemperature(p.Temperature)
	}
	if p.MaxTokens > 0 {
		genModel.SetMaxOutputTokens(int32(p.MaxTokens))
	}

	resp, err := genModel.GenerateContent(ctx, genai.Text(p.User))
	if err != nil {
		return "", fmt.Errorf("google api error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
