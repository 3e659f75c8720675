package errors

import (
	"net/http"

	"codeberg.org/vyra/server/internal/logger"
	"github.com/gin-gonic/gin"
)

// Error Handling Guidelines:
//
// For HTTP REST handlers:
//   - Use errors.Internal(), errors.InvalidArgument(), etc. to respond
//     These functions handle both logging and HTTP response automatically
//   - Use logger.ErrorErr() only for non-critical errors where processing continues
//   - Never call both logger.ErrorErr() and errors.Internal() for the same error
//
// For services/repositories/internal packages:
//   - Return wrapped errors with context using fmt.Errorf("context: %w", err)
//   - Let the caller (handler) decide how to log and respond
//   - Do not log errors in non-handler code (avoid double logging)

// message returned for every internal failure
const GenericFailureMessage = "Generation failed. Please try again."

// returns a 401 unauthenticated error
func Unauthenticated(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}

	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   CodeUnauthenticated,
		Message: message,
	})
}

// returns a 400 invalid-argument error
func InvalidArgument(c *gin.Context, message string) {
	if message == "" {
		message = "invalid request"
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeInvalidArgument,
		Message: message,
	})
}

// returns a 429 resource-exhausted error carrying the daily limit
func ResourceExhausted(c *gin.Context, message string, limit int) {
	if message == "" {
		message = "daily limit reached"
	}

	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   CodeResourceExhausted,
		Message: message,
		Limit:   &limit,
	})
}

// returns a 429 for request bursts; no quota limit is attached
func TooManyRequests(c *gin.Context) {
	c.JSON(http.StatusTooManyRequests, ErrorResponse{
		Error:   CodeResourceExhausted,
		Message: "too many requests, slow down",
	})
}

// returns a 404 not found error
func NotFound(c *gin.Context, resource string) {
	message := "resource not found"

	if resource != "" {
		message = resource + " not found"
	}

	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   CodeNotFound,
		Message: message,
	})
}

// logs the full error server-side and returns the generic internal error
func Internal(c *gin.Context, err error, fields ...any) {
	info := classifyError(err)

	args := append([]any{
		"category", info.category,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"user_id", c.GetString("user_id"),
	}, fields...)

	logger.ErrorErr(err, "request failed", args...)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeInternal,
		Message: GenericFailureMessage,
	})
}

// returns a 500 for endpoints outside the generation flow
func InternalError(c *gin.Context, message string, err error) {
	if message == "" {
		message = "an error occurred"
	}

	logger.ErrorErr(err, message,
		"category", classifyError(err).category,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"user_id", c.GetString("user_id"),
	)

	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   CodeInternal,
		Message: message,
	})
}

// returns the log category for an error
func Category(err error) string {
	return classifyError(err).category
}
