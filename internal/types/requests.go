package types

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names and registers the "nonblank" tag,
// which rejects whitespace-only strings.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// AssessmentRequest is the body of POST /career-assessment.
type AssessmentRequest struct {
	Answers []QuizAnswer `json:"answers" validate:"required,min=1"`
}

// Validate validates the AssessmentRequest using the validator.
func (r *AssessmentRequest) Validate() error {
	return validate.Struct(r)
}

// PathwayRequest is the body of POST /generate-pathway.
type PathwayRequest struct {
	Career string `json:"career" validate:"required,nonblank"`
}

// Validate validates the PathwayRequest using the validator.
func (r *PathwayRequest) Validate() error {
	return validate.Struct(r)
}

// SuggestionsRequest is the body of POST /get-career-suggestions.
type SuggestionsRequest struct {
	Input string `json:"input" validate:"required,nonblank"`
}

// Validate validates the SuggestionsRequest using the validator.
func (r *SuggestionsRequest) Validate() error {
	return validate.Struct(r)
}

// ExamInfoRequest is the body of POST /get-exam-info.
type ExamInfoRequest struct {
	ExamName string `json:"examName" validate:"required,nonblank"`
}

// Validate validates the ExamInfoRequest using the validator.
func (r *ExamInfoRequest) Validate() error {
	return validate.Struct(r)
}

// ResolveProgramRequest is the body of POST /resolve-program.
// Type and Level describe the pathway step the name came from; Type defaults to degree.
type ResolveProgramRequest struct {
	Name  string   `json:"name" validate:"required,nonblank"`
	Type  StepType `json:"type,omitempty" validate:"omitempty,oneof=degree transfer internship exam"`
	Level string   `json:"level,omitempty"`
}

// Step returns the pathway step described by the request.
func (r *ResolveProgramRequest) Step() PathwayStep {
	step := PathwayStep{Type: r.Type, Level: r.Level, Name: r.Name}
	if step.Type == "" {
		step.Type = StepDegree
	}
	return step
}

// Validate validates the ResolveProgramRequest using the validator.
func (r *ResolveProgramRequest) Validate() error {
	return validate.Struct(r)
}

// ResolveProgramResponse is the body returned by POST /resolve-program.
// Tier names the catalog table that matched; it is empty for synthesized URLs.
type ResolveProgramResponse struct {
	URL    string `json:"url"`
	Linked bool   `json:"linked"`
	Tier   string `json:"tier,omitempty"`
}

// CostEstimateRequest is the body of POST /estimate-cost.
type CostEstimateRequest struct {
	Career string        `json:"career"`
	Steps  []PathwayStep `json:"steps" validate:"required,min=1"`
	EFC    *float64      `json:"efc,omitempty" validate:"omitempty,gte=0"`
}

// Validate validates the CostEstimateRequest. Steps are checked for presence only;
// their individual fields are not required for costing.
func (r *CostEstimateRequest) Validate() error {
	return validate.Struct(r)
}

// FirstFieldError returns the name of the first failing field in a validator error,
// or "" when err does not come from the validator.
func FirstFieldError(err error) string {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return errs[0].Field()
	}
	return ""
}
