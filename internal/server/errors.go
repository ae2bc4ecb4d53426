package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/career-pathway/internal/llm"
)

// Client-facing messages.
const (
	msgAPIKeyMissing    = "API key not configured"
	msgAnswersRequired  = "Answers parameter is required and must be a non-empty array."
	msgCareerRequired   = "Career parameter is required and must be a non-empty string."
	msgPathwayUpstream  = "Failed to generate pathway due to an external API error."
	msgNoCandidates     = "No candidates returned from API."
	msgNoResponse       = "No response from Gemini API"
	msgAssessmentFailed = "Failed to get career assessment"
	msgInvalidJSON      = "Request body must be valid JSON."
	msgNameRequired     = "Name parameter is required and must be a non-empty string."
	msgStepsRequired    = "Steps parameter is required and must be a non-empty array."
	msgInputRequired    = "Input parameter is required and must be a non-empty string."
	msgExamRequired     = "Exam name parameter is required and must be a non-empty string."
	msgRateLimited      = "Rate limit exceeded. Please try again later."
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrConfiguration indicates a required server setting is missing.
type ErrConfiguration struct {
	Setting string
}

func (e *ErrConfiguration) Error() string {
	return fmt.Sprintf("%s is not configured", e.Setting)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Upstream failures keep the provider's status when it sent one.
func HTTPStatus(err error) int {
	var (
		validation *ErrValidation
		config     *ErrConfiguration
		blocked    *llm.BlockedError
		upstream   *llm.UpstreamError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &config), errors.Is(err, llm.ErrMissingAPIKey):
		return http.StatusInternalServerError
	case errors.As(err, &blocked):
		return http.StatusBadRequest
	case errors.As(err, &upstream):
		if upstream.Status >= 400 {
			return upstream.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// assessmentError returns the status and message reported by /career-assessment.
func assessmentError(err error) (int, string) {
	var (
		validation *ErrValidation
		upstream   *llm.UpstreamError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, llm.ErrMissingAPIKey):
		return http.StatusInternalServerError, msgAPIKeyMissing
	case errors.As(err, &upstream):
		return HTTPStatus(err), fmt.Sprintf("Gemini API error: %s", upstreamText(upstream))
	case errors.Is(err, llm.ErrNoCandidates), errors.Is(err, llm.ErrEmptyResponse):
		return http.StatusInternalServerError, msgNoResponse
	}

	msg := err.Error()
	if msg == "" {
		msg = msgAssessmentFailed
	}
	return HTTPStatus(err), msg
}

// pathwayError returns the status and message reported by /generate-pathway.
// Every upstream or parse failure is a 500 with the same message.
func pathwayError(err error) (int, string) {
	var (
		validation *ErrValidation
		blocked    *llm.BlockedError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, llm.ErrMissingAPIKey):
		return http.StatusInternalServerError, msgAPIKeyMissing
	case errors.As(err, &blocked):
		return http.StatusBadRequest, fmt.Sprintf("Request blocked: %s", blocked.Reason)
	case errors.Is(err, llm.ErrNoCandidates):
		return http.StatusInternalServerError, msgNoCandidates
	default:
		return http.StatusInternalServerError, msgPathwayUpstream
	}
}

func upstreamText(e *llm.UpstreamError) string {
	if e.Status >= 400 {
		if text := http.StatusText(e.Status); text != "" {
			return text
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(http.StatusBadGateway)
}
