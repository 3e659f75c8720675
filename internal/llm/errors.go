package llm

import (
	"errors"
	"fmt"
)

// returned when the provider succeeds without a usable image reference
var ErrNoImage = errors.New("openai: response contained no image url")

// non-200 response from a provider
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("openai: API request failed with status %d: %s", e.StatusCode, e.Message)
}
