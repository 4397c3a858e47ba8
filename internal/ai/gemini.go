package ai

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

// GeminiClient implements TextGenerator on top of the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// ClientOption configures the client
type ClientOption func(*GeminiClient)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// NewGeminiClient creates a Gemini-backed text generator.
func NewGeminiClient(ctx context.Context, apiKey string, opts ...ClientOption) (*GeminiClient, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	c := &GeminiClient{
		client: genaiClient,
		model:  DefaultModel,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

var _ TextGenerator = (*GeminiClient)(nil)

// GenerateText generates report prose from a prompt.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	slog.DebugContext(ctx, "Generating report text", "model", c.model)

	contents := genai.Text(prompt)
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return extractTextFromResponse(result)
}

// Version returns the model identifier recorded in report metadata.
func (c *GeminiClient) Version() string {
	return c.model
}

// extractTextFromResponse concatenates the text parts of the first candidate.
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}
