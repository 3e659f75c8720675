package pipeline

import (
	"context"
	"errors"

	"codeberg.org/vyra/server/internal/llm"
	"codeberg.org/vyra/server/vyra/usage"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrQuotaExceeded   = usage.ErrQuotaExceeded
	ErrConfiguration   = errors.New("provider not configured")
	ErrProviderFailed  = errors.New("image provider failed")
	ErrEmptyResult     = errors.New("image provider returned no image")
	ErrPersistence     = errors.New("persistence failure")
)

// quota rejection carrying the limit that was hit
type QuotaError = usage.QuotaError

// rejected input; Message is safe to show to the caller
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidArgument
}

func invalidArgument(message string) error {
	return &ValidationError{Message: message}
}

// failure classification used in logs and metrics
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuth          Kind = "auth"
	KindQuota         Kind = "quota_exceeded"
	KindConfiguration Kind = "configuration"
	KindProvider      Kind = "provider"
	KindPersistence   Kind = "persistence"
	KindTimeout       Kind = "timeout"
	KindUnknown       Kind = "unknown"
)

// classifies any error returned by the pipeline
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return KindValidation
	case errors.Is(err, ErrUnauthenticated):
		return KindAuth
	case errors.Is(err, ErrQuotaExceeded):
		return KindQuota
	case errors.Is(err, ErrConfiguration), errors.Is(err, llm.ErrNotConfigured):
		return KindConfiguration
	case errors.Is(err, ErrProviderFailed), errors.Is(err, ErrEmptyResult):
		return KindProvider
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindTimeout
	default:
		return KindUnknown
	}
}
