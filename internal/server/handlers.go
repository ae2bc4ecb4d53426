package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/career-pathway/internal/advisor"
	"github.com/jonathan/career-pathway/internal/finance"
	"github.com/jonathan/career-pathway/internal/llm"
	"github.com/jonathan/career-pathway/internal/types"
)

// careersResponse is the body returned by /career-assessment.
type careersResponse struct {
	Careers []types.CareerSuggestion `json:"careers"`
}

// suggestionsResponse is the body returned by /get-career-suggestions.
// Error explains why Suggestions is empty or came from a fallback.
type suggestionsResponse struct {
	Suggestions []types.SuggestionItem `json:"suggestions"`
	Error       string                 `json:"error,omitempty"`
}

// examInfoResponse is the body returned by /get-exam-info.
// Error is set when the payload is a fallback.
type examInfoResponse struct {
	types.ExamInfo
	Error string `json:"error,omitempty"`
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return &ErrValidation{Field: "body", Message: msgInvalidJSON}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &ErrValidation{Field: "body", Message: msgInvalidJSON}
	}
	return nil
}

// validationError turns a request validator failure into an ErrValidation with message.
func validationError(err error, message string) *ErrValidation {
	field := types.FirstFieldError(err)
	if field == "" {
		field = "body"
	}
	return &ErrValidation{Field: field, Message: message}
}

// handleCareerAssessment recommends careers for a completed quiz.
func (s *Server) handleCareerAssessment(w http.ResponseWriter, r *http.Request) {
	if !s.advisor.Configured() {
		s.errorResponse(w, r, http.StatusInternalServerError, msgAPIKeyMissing)
		return
	}

	var req types.AssessmentRequest
	if err := decodeBody(r, &req); err != nil {
		s.log(r).Warn("career assessment body unreadable", "error", err)
		s.errorResponse(w, r, http.StatusInternalServerError, msgAssessmentFailed)
		return
	}
	if err := req.Validate(); err != nil {
		status, msg := assessmentError(validationError(err, msgAnswersRequired))
		s.errorResponse(w, r, status, msg)
		return
	}

	careers, err := s.advisor.Assess(r.Context(), req.Answers)
	if err != nil {
		status, msg := assessmentError(err)
		s.log(r).Error("career assessment failed", "status", status, "error", err)
		s.errorResponse(w, r, status, msg)
		return
	}

	s.jsonResponse(w, r, http.StatusOK, careersResponse{Careers: careers})
}

// handleGeneratePathway generates a pathway toward a career.
func (s *Server) handleGeneratePathway(w http.ResponseWriter, r *http.Request) {
	if !s.advisor.Configured() {
		s.errorResponse(w, r, http.StatusInternalServerError, msgAPIKeyMissing)
		return
	}

	var req types.PathwayRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, r, http.StatusBadRequest, msgCareerRequired)
		return
	}
	if err := req.Validate(); err != nil {
		status, msg := pathwayError(validationError(err, msgCareerRequired))
		s.errorResponse(w, r, status, msg)
		return
	}

	pathway, err := s.advisor.GeneratePathway(r.Context(), req.Career)
	if err != nil {
		status, msg := pathwayError(err)
		s.log(r).Error("pathway generation failed", "career", req.Career, "status", status, "error", err)
		s.errorResponse(w, r, status, msg)
		return
	}

	s.jsonResponse(w, r, http.StatusOK, pathway)
}

// handleCareerSuggestions autocompletes careers. It always answers 200.
func (s *Server) handleCareerSuggestions(w http.ResponseWriter, r *http.Request) {
	var req types.SuggestionsRequest
	if err := decodeBody(r, &req); err != nil {
		s.suggestionsFallback(w, r, msgInvalidJSON)
		return
	}
	if err := req.Validate(); err != nil {
		s.suggestionsFallback(w, r, msgInputRequired)
		return
	}

	suggestions, err := s.advisor.Suggest(r.Context(), req.Input)
	resp := suggestionsResponse{Suggestions: suggestions}
	if err != nil {
		resp.Error = lenientMessage(err, msgInputRequired)
		s.log(r).Warn("career suggestions fell back", "error", err)
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []types.SuggestionItem{}
	}

	s.jsonResponse(w, r, http.StatusOK, resp)
}

// suggestionsFallback answers /get-career-suggestions with an empty list.
func (s *Server) suggestionsFallback(w http.ResponseWriter, r *http.Request, message string) {
	s.jsonResponse(w, r, http.StatusOK, suggestionsResponse{Suggestions: []types.SuggestionItem{}, Error: message})
}

// handleExamInfo looks up exam registration details. It always answers 200.
func (s *Server) handleExamInfo(w http.ResponseWriter, r *http.Request) {
	var req types.ExamInfoRequest
	if err := decodeBody(r, &req); err != nil {
		s.examInfoFallback(w, r, "", msgInvalidJSON)
		return
	}
	if err := req.Validate(); err != nil {
		s.examInfoFallback(w, r, req.ExamName, msgExamRequired)
		return
	}

	info, err := s.advisor.ExamInfo(r.Context(), req.ExamName)
	resp := examInfoResponse{ExamInfo: info}
	if err != nil {
		resp.Error = lenientMessage(err, msgExamRequired)
		s.log(r).Warn("exam info fell back", "exam", req.ExamName, "error", err)
	}

	s.jsonResponse(w, r, http.StatusOK, resp)
}

// examInfoFallback answers /get-exam-info with the generic registration guidance.
func (s *Server) examInfoFallback(w http.ResponseWriter, r *http.Request, examName, message string) {
	s.jsonResponse(w, r, http.StatusOK, examInfoResponse{
		ExamInfo: advisor.UpstreamFallbackExamInfo(examName),
		Error:    message,
	})
}

// handleResolveProgram returns the catalog link for a program name.
func (s *Server) handleResolveProgram(w http.ResponseWriter, r *http.Request) {
	var req types.ResolveProgramRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, r, HTTPStatus(err), msgInvalidJSON)
		return
	}
	if err := req.Validate(); err != nil {
		message := msgNameRequired
		if field := types.FirstFieldError(err); field != "" && field != "name" {
			message = fmt.Sprintf("Invalid %s parameter.", field)
		}
		s.errorResponse(w, r, http.StatusBadRequest, message)
		return
	}

	s.jsonResponse(w, r, http.StatusOK, s.resolver.Describe(req.Step()))
}

// handleEstimateCost prices a pathway and projects its return.
func (s *Server) handleEstimateCost(w http.ResponseWriter, r *http.Request) {
	var req types.CostEstimateRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, r, HTTPStatus(err), msgInvalidJSON)
		return
	}
	if err := req.Validate(); err != nil {
		message := msgStepsRequired
		if types.FirstFieldError(err) == "efc" {
			message = "EFC parameter must not be negative."
		}
		s.errorResponse(w, r, http.StatusBadRequest, message)
		return
	}

	efc := float64(finance.DefaultEFC)
	if req.EFC != nil {
		efc = *req.EFC
	}

	s.jsonResponse(w, r, http.StatusOK, s.estimator.Estimate(req.Career, req.Steps, efc))
}

// lenientMessage describes a fallback cause for the two fail-soft endpoints.
func lenientMessage(err error, blankInput string) string {
	var upstream *llm.UpstreamError

	switch {
	case errors.Is(err, advisor.ErrBlankInput):
		return blankInput
	case errors.Is(err, llm.ErrMissingAPIKey):
		return msgAPIKeyMissing
	case errors.As(err, &upstream):
		return fmt.Sprintf("Gemini API error: %s", upstreamText(upstream))
	case errors.Is(err, llm.ErrNoCandidates), errors.Is(err, llm.ErrEmptyResponse):
		return msgNoResponse
	default:
		return err.Error()
	}
}
