package parsing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/career-pathway/internal/extract"
	"github.com/jonathan/career-pathway/internal/schemas"
	"github.com/jonathan/career-pathway/internal/types"
)

// DefaultPathwayTitle is used when the model leaves the title blank.
func DefaultPathwayTitle(career string) string {
	return fmt.Sprintf("Pathway to becoming a %s", strings.TrimSpace(career))
}

type rawPathway struct {
	Title string            `json:"title"`
	Steps []json.RawMessage `json:"steps"`
}

// ParsePathway extracts and validates a pathway object from generated text.
// Steps failing the step schema are dropped individually; step order is preserved.
func ParsePathway(text, career string) (*types.Pathway, error) {
	result := extract.Object(text)
	if !result.OK() {
		return nil, &ParseError{Message: "no JSON object found in response"}
	}

	if err := schemas.Validate(schemas.Pathway, result.JSON); err != nil {
		return nil, &ValidationError{What: "pathway", Cause: err}
	}

	var raw rawPathway
	if err := json.Unmarshal(result.JSON, &raw); err != nil {
		return nil, &ParseError{Message: "failed to decode pathway", Cause: err}
	}

	pathway := &types.Pathway{
		Title: strings.TrimSpace(raw.Title),
		Steps: make([]types.PathwayStep, 0, len(raw.Steps)),
	}
	if pathway.Title == "" {
		pathway.Title = DefaultPathwayTitle(career)
	}

	for _, stepJSON := range raw.Steps {
		if step, ok := parseStep(stepJSON); ok {
			pathway.Steps = append(pathway.Steps, step)
		}
	}

	if len(pathway.Steps) == 0 {
		return nil, &EmptyResultError{What: "pathway steps"}
	}
	return pathway, nil
}

// parseStep normalizes the step type's case before schema validation.
func parseStep(data json.RawMessage) (types.PathwayStep, bool) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return types.PathwayStep{}, false
	}
	if t, ok := fields["type"].(string); ok {
		fields["type"] = strings.ToLower(strings.TrimSpace(t))
	}

	normalized, err := json.Marshal(fields)
	if err != nil {
		return types.PathwayStep{}, false
	}
	if err := schemas.Validate(schemas.PathwayStep, normalized); err != nil {
		return types.PathwayStep{}, false
	}

	var step types.PathwayStep
	if err := json.Unmarshal(normalized, &step); err != nil {
		return types.PathwayStep{}, false
	}
	step.Level = strings.TrimSpace(step.Level)
	step.Name = strings.TrimSpace(step.Name)
	step.Description = strings.TrimSpace(step.Description)
	return step, true
}
