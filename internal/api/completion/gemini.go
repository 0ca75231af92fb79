package completion

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/genai"

	"github.com/wanderwise/wanderwise-api/config"
)

const defaultTemperature = 0.5

var _ Client = (*GeminiClient)(nil)

// GeminiClient is the alternate backend, using the Gemini API.
type GeminiClient struct {
	logger *slog.Logger
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, cfg config.CompletionConfig, logger *slog.Logger) (*GeminiClient, error) {
	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiClient{
		logger: logger,
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	genCfg := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](defaultTemperature)}
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	txt := result.Text()
	if txt == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return txt, nil
}
