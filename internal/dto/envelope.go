package dto

import "time"

// APIResponse is the generic envelope returned by resource endpoints.
type APIResponse[T any] struct {
	Data      *T     `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Status    int    `json:"status,omitempty"`
}

// OK wraps data in a success envelope stamped with now.
func OK[T any](status int, data T, message string, now time.Time) APIResponse[T] {
	return APIResponse[T]{
		Data:      &data,
		Message:   message,
		Timestamp: now.UTC().Format(time.RFC3339),
		Status:    status,
	}
}

type APIError struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path,omitempty"`
}

func NewAPIError(status int, code, message, path string, now time.Time) APIError {
	return APIError{
		Timestamp: now.UTC().Format(time.RFC3339),
		Status:    status,
		Error:     code,
		Message:   message,
		Path:      path,
	}
}
