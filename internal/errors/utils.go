package errors

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// standard error codes
const (
	CodeUnauthenticated   = "unauthenticated"
	CodeInvalidArgument   = "invalid-argument"
	CodeResourceExhausted = "resource-exhausted"
	CodeNotFound          = "not-found"
	CodeInternal          = "internal"
)

// error categories for classification
const (
	CategoryDatabase   = "database"
	CategoryContention = "contention"
	CategoryNetwork    = "network"
	CategoryProvider   = "provider"
	CategoryNotFound   = "not_found"
	CategoryTimeout    = "timeout"
	CategoryUnknown    = "unknown"
)

// analyzes an error and returns its category
func classifyError(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{CategoryUnknown}
	}

	// database errors (pgx-specific)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return ErrorInfo{CategoryContention}
		}

		return ErrorInfo{CategoryDatabase}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorInfo{CategoryNotFound}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorInfo{CategoryTimeout}
	}

	// fallback to string matching for unknown error types
	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline"):
		return ErrorInfo{CategoryTimeout}
	case strings.Contains(errMsg, "contention") || strings.Contains(errMsg, "serialization"):
		return ErrorInfo{CategoryContention}
	case strings.Contains(errMsg, "database") || strings.Contains(errMsg, "sql") ||
		strings.Contains(errMsg, "postgres") || strings.Contains(errMsg, "pgx"):
		return ErrorInfo{CategoryDatabase}
	case strings.Contains(errMsg, "openai") || strings.Contains(errMsg, "gemini") ||
		strings.Contains(errMsg, "provider"):
		return ErrorInfo{CategoryProvider}
	case strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network") ||
		strings.Contains(errMsg, "dial"):
		return ErrorInfo{CategoryNetwork}
	case strings.Contains(errMsg, "not found") || strings.Contains(errMsg, "no rows"):
		return ErrorInfo{CategoryNotFound}
	}

	return ErrorInfo{CategoryUnknown}
}
