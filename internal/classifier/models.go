package classifier

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ModelService is the subset of the Gemini API the classifier needs.
// It enables mocking in tests.
type ModelService interface {
	// GenerateText sends a single text prompt and returns the response text.
	GenerateText(ctx context.Context, model, prompt string) (string, error)
	// ListModels returns the names of models available to the API key.
	ListModels(ctx context.Context) ([]string, error)
}

// GenAIModels implements ModelService with the genai client.
type GenAIModels struct {
	client *genai.Client
}

// NewGenAIModels creates a Gemini API client authenticated with apiKey.
func NewGenAIModels(ctx context.Context, apiKey string) (*GenAIModels, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("NewGenAIModels: API key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("NewGenAIModels: create genai client: %w", err)
	}
	return &GenAIModels{client: client}, nil
}

// GenerateText implements ModelService.
func (m *GenAIModels) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := m.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenerateText: generate content: %w", err)
	}
	return resp.Text(), nil
}

// ListModels implements ModelService. The "models/" prefix is removed.
func (m *GenAIModels) ListModels(ctx context.Context) ([]string, error) {
	var names []string
	for model, err := range m.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("ListModels: %w", err)
		}
		names = append(names, strings.TrimPrefix(model.Name, "models/"))
	}
	return names, nil
}
