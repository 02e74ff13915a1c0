package services

import (
	"errors"
	"fmt"
)

// ErrSelfConfirm rejects a confirmation carrying the target report's own
// owner token.
var ErrSelfConfirm = errors.New("cannot confirm your own report")

// ErrNoStatus signals that no official status could be produced, live or
// logged.
var ErrNoStatus = errors.New("no status available")

// ValidationError is a user-correctable rejection raised before any store
// call. It is never retried automatically.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// RateLimitError carries the whole seconds a client must wait before the
// next submission attempt.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("please wait %d seconds before submitting again", e.RetryAfter)
}
