package llm

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/vyra/server/internal/logger"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// rate limiter for Gemini API calls (10 requests/second with burst capacity of 5)
var geminiRateLimiter = rate.NewLimiter(10, 5)

// subset of *genai.Models used here
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type GeminiTextGenerator struct {
	model   string
	models  contentModels
	limiter *rate.Limiter
}

// creates a Gemini text generator backed by the Gemini API
func NewGeminiTextGenerator(ctx context.Context, config GeminiConfig) (*GeminiTextGenerator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrNotConfigured)
	}

	if config.Model == "" {
		config.Model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiTextGenerator{
		model:   config.Model,
		models:  client.Models,
		limiter: geminiRateLimiter,
	}, nil
}

func (g *GeminiTextGenerator) Model() string {
	return g.model
}

func (g *GeminiTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	result, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: failed to generate content: %w", err)
	}

	if result.UsageMetadata != nil {
		logger.FromContext(ctx).Debug("gemini usage",
			"model", g.model,
			"prompt_tokens", result.UsageMetadata.PromptTokenCount,
			"total_tokens", result.UsageMetadata.TotalTokenCount,
		)
	}

	return strings.TrimSpace(result.Text()), nil
}
