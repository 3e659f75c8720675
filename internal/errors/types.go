package errors

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`           // error code (e.g., "unauthenticated", "internal")
	Message string `json:"message"`         // user-friendly message
	Limit   *int   `json:"limit,omitempty"` // daily limit, only on resource-exhausted
}

type ErrorInfo struct {
	category string
}
