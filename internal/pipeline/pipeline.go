package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"codeberg.org/vyra/server/internal/logger"
	"codeberg.org/vyra/server/vyra/generations"
	"codeberg.org/vyra/server/vyra/ledger"
	"codeberg.org/vyra/server/vyra/usage"
)

// advisory admission check; *usage.Gate implements it
type QuotaChecker interface {
	Precheck(ctx context.Context, userID, today string, declared usage.Tier) (usage.Decision, error)
}

// best-effort refinement; *Optimizer implements it
type PromptOptimizer interface {
	Optimize(ctx context.Context, prompt, style string) string
}

// mandatory synthesis; *Generator implements it
type ImageSynthesizer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// authoritative commit; *ledger.Ledger implements it
type Committer interface {
	Commit(ctx context.Context, req ledger.CommitRequest) (*ledger.CommitResult, error)
}

type Deps struct {
	Gate      QuotaChecker
	Optimizer PromptOptimizer
	Generator ImageSynthesizer
	Ledger    Committer
}

// Pipeline runs one generation request from validation to commit.
type Pipeline struct {
	gate      QuotaChecker
	optimizer PromptOptimizer
	generator ImageSynthesizer
	ledger    Committer

	timeout  time.Duration
	now      func() time.Time
	recorder Recorder
}

type Option func(*Pipeline)

// bounds the whole request, provider calls included
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.recorder = r
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(deps Deps, opts ...Option) *Pipeline {
	p := &Pipeline{
		gate:      deps.Gate,
		optimizer: deps.Optimizer,
		generator: deps.Generator,
		ledger:    deps.Ledger,
		timeout:   300 * time.Second,
		now:       time.Now,
		recorder:  nopRecorder{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// per-request bookkeeping for stage transitions
type run struct {
	log        *slog.Logger
	recorder   Recorder
	stage      Stage
	stageStart time.Time
}

func (r *run) enter(stage Stage) {
	r.stage = stage
	r.stageStart = time.Now()
	r.log.Debug("generation stage", "stage", stage)
}

func (r *run) leave(ok bool) {
	r.recorder.RecordStage(string(r.stage), ok, time.Since(r.stageStart))
}

// Generate runs the request through every stage. Errors wrap one of the
// package sentinels; KindOf classifies them.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	log := logger.FromContext(ctx).With("user_id", req.UserID)
	ctx = logger.WithContext(ctx, log)

	r := &run{log: log, recorder: p.recorder}

	result, err := p.generate(ctx, r, req)
	if err != nil {
		r.leave(false)
		p.fail(log, r.stage, err, time.Since(start))
		return nil, err
	}

	r.stage = StageSucceeded
	p.recorder.RecordOutcome(string(StageSucceeded))
	log.Info("generation succeeded",
		"generation_id", result.GenerationID,
		"daily_count", result.DailyCount,
		"limit", result.Limit,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

func (p *Pipeline) generate(ctx context.Context, r *run, req Request) (*Result, error) {
	today := usage.Day(p.now())

	r.enter(StageValidating)
	prompt, style, err := validate(req)
	if err != nil {
		return nil, err
	}
	r.leave(true)

	r.enter(StageQuotaChecking)
	decision, err := p.gate.Precheck(ctx, req.UserID, today, req.DeclaredTier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if !decision.Allowed {
		return nil, &QuotaError{Limit: decision.Limit, Count: decision.Count}
	}
	r.leave(true)

	r.enter(StageOptimizing)
	optimized := p.optimizer.Optimize(ctx, prompt, style)
	r.leave(true)

	r.enter(StageGenerating)
	imageURL, err := p.generator.Generate(ctx, optimized)
	if err != nil {
		return nil, err
	}
	r.leave(true)

	r.enter(StageCommitting)
	committed, err := p.ledger.Commit(ctx, ledger.CommitRequest{
		UserID: req.UserID,
		Today:  today,
		Limit:  decision.Limit,
		Generation: generations.Draft{
			UserID:          req.UserID,
			OriginalPrompt:  prompt,
			OptimizedPrompt: optimized,
			Style:           style,
			ImageURL:        imageURL,
		},
	})
	if err != nil {
		// the image was paid for but will not be recorded
		r.log.Warn("generated image discarded", "image_url", imageURL)

		if errors.Is(err, ErrQuotaExceeded) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	r.leave(true)

	return &Result{
		ImageURL:        imageURL,
		OptimizedPrompt: optimized,
		GenerationID:    committed.GenerationID,
		DailyCount:      committed.Usage.DailyGenerationCount,
		Limit:           decision.Limit,
		CreatedAt:       committed.CreatedAt,
	}, nil
}

func (p *Pipeline) fail(log *slog.Logger, stage Stage, err error, elapsed time.Duration) {
	kind := KindOf(err)
	p.recorder.RecordOutcome(string(kind))

	args := []any{
		"stage", stage,
		"kind", kind,
		"duration_ms", elapsed.Milliseconds(),
		"error", err,
	}

	switch kind {
	case KindValidation, KindQuota, KindAuth:
		log.Warn("generation rejected", args...)
	default:
		log.Error("generation failed", args...)
	}
}
