package pipeline

import (
	"time"

	"codeberg.org/vyra/server/vyra/usage"
)

// one generation request from an authenticated caller
type Request struct {
	UserID       string
	Prompt       string
	Style        string
	DeclaredTier usage.Tier
}

type Result struct {
	ImageURL        string
	OptimizedPrompt string
	GenerationID    string
	DailyCount      int
	Limit           int
	CreatedAt       time.Time
}

// pipeline states; a failure ends the run in whichever stage was current
type Stage string

const (
	StageValidating    Stage = "validating"
	StageQuotaChecking Stage = "quota_checking"
	StageOptimizing    Stage = "optimizing"
	StageGenerating    Stage = "generating"
	StageCommitting    Stage = "committing"
	StageSucceeded     Stage = "succeeded"
)

// receives pipeline measurements; *metrics.Collector implements it
type Recorder interface {
	RecordOutcome(outcome string)
	RecordStage(stage string, ok bool, d time.Duration)
	RecordOptimizerFallback(reason string)
}

type nopRecorder struct{}

func (nopRecorder) RecordOutcome(string) {}

func (nopRecorder) RecordStage(string, bool, time.Duration) {}

func (nopRecorder) RecordOptimizerFallback(string) {}
