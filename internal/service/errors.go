package service

import (
	"fmt"
)

// ValidationError is a client-fixable problem with the request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// QuotaExceededError is returned when a free identity has used its daily
// generations. Used is the count observed by the admission check.
type QuotaExceededError struct {
	Used  int
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("Daily limit reached (%d/%d). Upgrade to Pro for unlimited access.", e.Limit, e.Limit)
}

// FetchError means the article could not be retrieved. StatusCode is 0 when no
// response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("Failed to fetch article: %d", e.StatusCode)
	}
	return fmt.Sprintf("Failed to fetch article: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// GenerationError wraps a failed or empty LLM call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string { return "generate content: " + e.Err.Error() }

func (e *GenerationError) Unwrap() error { return e.Err }

// ConfigurationError means a required credential or setting is missing.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }
