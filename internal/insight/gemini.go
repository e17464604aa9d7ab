package insight

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	Timeout         time.Duration
}

// GeminiGenerator calls the Gemini API through the official SDK.
type GeminiGenerator struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
}

func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	name := strings.TrimSpace(cfg.Model)
	if name == "" {
		name = "gemini-1.5-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(strings.TrimSpace(cfg.APIKey)))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(float32(cfg.Temperature))
	if cfg.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(int32(cfg.MaxOutputTokens))
	}
	return &GeminiGenerator{client: client, model: model, name: name, timeout: timeout}, nil
}

func (g *GeminiGenerator) ModelName() string { return g.name }

func (g *GeminiGenerator) Close() error { return g.client.Close() }

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty gemini response")
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return b.String()
}
