package pipeline

import (
	"context"
	"errors"
	"time"

	"codeberg.org/vyra/server/internal/llm"
	"codeberg.org/vyra/server/internal/logger"
)

// yields the text provider; *llm.Clients implements it
type TextSource interface {
	Text(ctx context.Context) (llm.TextGenerator, error)
}

// Optimizer rewrites prompts through the text provider. It never fails: any
// problem falls back to the original prompt.
type Optimizer struct {
	source      TextSource
	timeout     time.Duration
	targetModel string
	wordBudget  int
	recorder    Recorder
}

type OptimizerOption func(*Optimizer)

func WithOptimizerTimeout(d time.Duration) OptimizerOption {
	return func(o *Optimizer) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// names the image model the rewrite is aimed at
func WithTargetModel(name string) OptimizerOption {
	return func(o *Optimizer) {
		if name != "" {
			o.targetModel = name
		}
	}
}

func WithOptimizerRecorder(r Recorder) OptimizerOption {
	return func(o *Optimizer) {
		if r != nil {
			o.recorder = r
		}
	}
}

func NewOptimizer(source TextSource, opts ...OptimizerOption) *Optimizer {
	o := &Optimizer{
		source:      source,
		timeout:     20 * time.Second,
		targetModel: defaultTargetModel,
		wordBudget:  defaultWordBudget,
		recorder:    nopRecorder{},
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// returns a refined prompt, or prompt itself when refinement is unavailable
func (o *Optimizer) Optimize(ctx context.Context, prompt, style string) string {
	log := logger.FromContext(ctx)

	gen, err := o.source.Text(ctx)
	if err != nil {
		o.fallback(ctx, fallbackReason(err), err)
		return prompt
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	text, err := gen.GenerateText(ctx, buildInstruction(prompt, style, o.targetModel, o.wordBudget))
	if err != nil {
		o.fallback(ctx, fallbackReason(err), err)
		return prompt
	}

	refined := cleanRefinement(text)
	if refined == "" {
		o.fallback(ctx, "empty", errors.New("text provider returned no usable prompt"))
		return prompt
	}

	log.Debug("prompt refined", "original_length", len(prompt), "refined_length", len(refined))
	return refined
}

func (o *Optimizer) fallback(ctx context.Context, reason string, err error) {
	o.recorder.RecordOptimizerFallback(reason)
	logger.FromContext(ctx).Warn("prompt refinement skipped", "reason", reason, "error", err.Error())
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
