package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrFetch         = errors.New("failed to fetch stats")
	ErrFormat        = errors.New("failed to format stats")
	ErrPublish       = errors.New("failed to update gist")
)

// APIError is returned when the stats endpoint answers with a non-success status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stats API returned status %d: %s", e.StatusCode, e.Body)
}

// Unwrap lets callers match an APIError with errors.Is(err, ErrFetch).
func (e *APIError) Unwrap() error {
	return ErrFetch
}
