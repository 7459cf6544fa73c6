// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
)

// Common application errors.
var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrEmptyResponse = errors.New("empty response from model")
	ErrMissingConfig = errors.New("missing configuration")
)

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return false
}
