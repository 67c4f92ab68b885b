// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}

// ConflictError reports a blocked deletion together with the number of
// dependent rows that caused the block.
type ConflictError struct {
	Detail         string `json:"detail"`
	DependentCount int64  `json:"dependent_count"`
}

func NewConflict(msg string, count int64) *ConflictError {
	return &ConflictError{Detail: msg, DependentCount: count}
}
