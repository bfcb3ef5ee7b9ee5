package api

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadySubmitted signals that the service already holds feedback
	// for this student, typically from a concurrent session. Callers treat
	// it as a successful terminal outcome, not a failure.
	ErrAlreadySubmitted = errors.New("feedback already submitted")

	// ErrUnauthorized covers 401 responses (missing, expired or bad token).
	ErrUnauthorized = errors.New("not authenticated")
)

// ValidationError carries the service's message for a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StatusError is any other non-success HTTP response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}
