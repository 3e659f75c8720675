package pipeline

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/vyra/server/internal/llm"
)

const (
	imageSize    = "1024x1024"
	imageQuality = "standard"
)

// yields the image provider; *llm.Clients implements it
type ImageSource interface {
	Image(ctx context.Context) (llm.ImageGenerator, error)
}

// Generator performs the mandatory image synthesis step.
type Generator struct {
	source ImageSource
}

func NewGenerator(source ImageSource) *Generator {
	return &Generator{source: source}
}

// returns the URL of one synthesized image
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	gen, err := g.source.Image(ctx)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return "", fmt.Errorf("%w: %w", ErrConfiguration, err)
		}

		return "", fmt.Errorf("%w: %w", ErrProviderFailed, err)
	}

	result, err := gen.GenerateImage(ctx, llm.ImageRequest{
		Prompt:  prompt,
		Size:    imageSize,
		Quality: imageQuality,
	})
	if err != nil {
		if errors.Is(err, llm.ErrNoImage) {
			return "", fmt.Errorf("%w: %w", ErrEmptyResult, err)
		}

		return "", fmt.Errorf("%w: %w", ErrProviderFailed, err)
	}

	if result == nil || result.URL == "" {
		return "", ErrEmptyResult
	}

	return result.URL, nil
}
