package llm

import (
	"context"
	"fmt"
	"sync/atomic"

	"codeberg.org/vyra/server/internal/logger"
	"golang.org/x/sync/singleflight"
)

type TextFactory func(ctx context.Context, cfg Config) (TextGenerator, error)

type ImageFactory func(ctx context.Context, cfg Config) (ImageGenerator, error)

// Clients holds lazily-constructed provider handles.
//
// Each handle is built at most once per process. Concurrent first callers share
// a single construction through singleflight, no lock is held across the
// provider's I/O, and a failed construction is not cached so a later call can
// retry.
type Clients struct {
	cfg Config

	newText  TextFactory
	newImage ImageFactory

	text  atomic.Pointer[TextGenerator]
	image atomic.Pointer[ImageGenerator]
	group singleflight.Group
}

type ClientsOption func(*Clients)

// overrides how the text provider is constructed
func WithTextFactory(f TextFactory) ClientsOption {
	return func(c *Clients) { c.newText = f }
}

// overrides how the image provider is constructed
func WithImageFactory(f ImageFactory) ClientsOption {
	return func(c *Clients) { c.newImage = f }
}

func NewClients(cfg Config, opts ...ClientsOption) *Clients {
	c := &Clients{
		cfg:      cfg,
		newText:  defaultTextFactory,
		newImage: defaultImageFactory,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// returns the secondary text provider, constructing it on first use
func (c *Clients) Text(ctx context.Context) (TextGenerator, error) {
	if p := c.text.Load(); p != nil {
		return *p, nil
	}

	if c.cfg.apiKey(ProviderGemini) == "" {
		return nil, fmt.Errorf("gemini: %w", ErrNotConfigured)
	}

	v, err, _ := c.group.Do(string(ProviderGemini), func() (any, error) {
		if p := c.text.Load(); p != nil {
			return *p, nil
		}

		gen, err := c.newText(context.WithoutCancel(ctx), c.cfg)
		if err != nil {
			return nil, err
		}

		c.text.Store(&gen)
		return gen, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(TextGenerator), nil
}

// returns the primary image provider, constructing it on first use
func (c *Clients) Image(ctx context.Context) (ImageGenerator, error) {
	if p := c.image.Load(); p != nil {
		return *p, nil
	}

	if c.cfg.apiKey(ProviderOpenAI) == "" {
		return nil, fmt.Errorf("openai: %w", ErrNotConfigured)
	}

	v, err, _ := c.group.Do(string(ProviderOpenAI), func() (any, error) {
		if p := c.image.Load(); p != nil {
			return *p, nil
		}

		gen, err := c.newImage(context.WithoutCancel(ctx), c.cfg)
		if err != nil {
			return nil, err
		}

		c.image.Store(&gen)
		return gen, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(ImageGenerator), nil
}

func defaultTextFactory(ctx context.Context, cfg Config) (TextGenerator, error) {
	gen, err := NewGeminiTextGenerator(ctx, GeminiConfig{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.OptimizerModel,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("text provider ready", "provider", ProviderGemini, "model", gen.Model())
	return gen, nil
}

func defaultImageFactory(_ context.Context, cfg Config) (ImageGenerator, error) {
	gen, err := NewOpenAIImageGenerator(OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.ImageModel,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("image provider ready", "provider", ProviderOpenAI, "model", gen.Model())
	return gen, nil
}
