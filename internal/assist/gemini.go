package assist

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiClient implements Client on the Google GenAI API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed client.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{client: client, model: model}, nil
}

// Ask answers question using only the supplied passage. The prompt pins the
// model to extractive behavior so answers stay comparable to the form text.
func (c *GeminiClient) Ask(ctx context.Context, question, passage string) (string, error) {
	prompt := fmt.Sprintf(
		"Answer the question using only the passage. Reply with a short phrase, no explanation.\n\nPassage: %s\n\nQuestion: %s",
		passage, question)
	return c.generate(ctx, prompt, 64)
}

// Summarize produces a short abstractive summary of text.
func (c *GeminiClient) Summarize(ctx context.Context, text string, maxNewTokens int) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following in one or two sentences. Reply with the summary only.\n\n%s",
		text)
	return c.generate(ctx, prompt, int32(maxNewTokens))
}

func (c *GeminiClient) generate(ctx context.Context, prompt string, maxTokens int32) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			MaxOutputTokens: maxTokens,
			Temperature:     genai.Ptr[float32](0.1),
		})
	if err != nil {
		return "", fmt.Errorf("genai generate failed: %w", err)
	}

	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("no completion returned")
	}
	return out, nil
}
