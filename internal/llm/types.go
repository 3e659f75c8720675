package llm

import (
	"context"
	"errors"
)

// represents different AI providers
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// returned when a provider has no credentials configured
var ErrNotConfigured = errors.New("provider not configured")

// generates free text from a single prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// synthesizes images from a text prompt
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error)
}

type ImageRequest struct {
	Prompt  string
	Size    string // e.g., "1024x1024"
	Quality string // e.g., "standard"
}

type ImageResult struct {
	URL           string
	RevisedPrompt string
}

// holds configuration for provider clients
type Config struct {
	// secondary text provider
	GeminiAPIKey   string
	OptimizerModel string // e.g., "gemini-2.0-flash"

	// primary image provider
	OpenAIAPIKey string
	ImageModel   string // e.g., "dall-e-3"
}
