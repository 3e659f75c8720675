package llm

import "codeberg.org/vyra/server/internal/config"

const (
	defaultGeminiModel = "gemini-2.0-flash"
	defaultImageModel  = "dall-e-3"
)

// derives provider configuration from the service config
func ConfigFrom(cfg *config.Config) Config {
	c := Config{
		GeminiAPIKey:   cfg.GeminiKey,
		OptimizerModel: cfg.OptimizerModel,
		OpenAIAPIKey:   cfg.OpenAIKey,
		ImageModel:     cfg.ImageModel,
	}

	if c.OptimizerModel == "" {
		c.OptimizerModel = defaultGeminiModel
	}

	if c.ImageModel == "" {
		c.ImageModel = defaultImageModel
	}

	return c
}

// returns the API key for the given provider
func (c Config) apiKey(provider Provider) string {
	switch provider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	default:
		return ""
	}
}
