package ollama

import (
	"errors"
	"fmt"
)

// APIError represents a non-success response from the inference API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ollama: API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("ollama: API error: status %d: %s", e.StatusCode, e.Body)
}

// NewAPIError creates an APIError from a response status and body.
func NewAPIError(statusCode int, body string) *APIError {
	return &APIError{StatusCode: statusCode, Body: body}
}

// AsAPIError unwraps err into an *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
