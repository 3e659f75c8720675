package usage

import (
	"errors"
	"fmt"
)

var ErrQuotaExceeded = errors.New("daily generation limit reached")

// quota rejection carrying the limit that was hit
type QuotaError struct {
	Limit int
	Count int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("Daily limit of %d reached.", e.Limit)
}

func (e *QuotaError) Unwrap() error {
	return ErrQuotaExceeded
}
