package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned when no credential is configured for the provider.
var ErrMissingAPIKey = errors.New("API key is required")

// ErrNoCandidates is returned when the provider answered without any candidate.
var ErrNoCandidates = errors.New("no candidates in response")

// ErrEmptyResponse is returned when the first candidate carries no text.
var ErrEmptyResponse = errors.New("no text in response")

// UpstreamError is a transport failure or non-2xx answer from the provider.
// Status is 0 when no HTTP response was received.
type UpstreamError struct {
	Status  int
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream error (%d): %s", e.Status, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("upstream error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// BlockedError indicates the provider withheld generation for policy reasons.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("request blocked: %s", e.Reason)
}
