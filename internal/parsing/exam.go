package parsing

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jonathan/career-pathway/internal/extract"
	"github.com/jonathan/career-pathway/internal/schemas"
	"github.com/jonathan/career-pathway/internal/types"
)

// ParseExamInfo extracts exam registration details from generated text.
// The object must carry a url and a requirements list; non-scalar and blank
// requirement items are dropped. An empty list is accepted.
func ParseExamInfo(text string) (types.ExamInfo, error) {
	result := extract.Object(text)
	if !result.OK() {
		return types.ExamInfo{}, &ParseError{Message: "no JSON object found in response"}
	}

	if err := schemas.Validate(schemas.ExamInfo, result.JSON); err != nil {
		return types.ExamInfo{}, &ValidationError{What: "exam info", Cause: err}
	}

	var raw struct {
		URL          string `json:"url"`
		Requirements []any  `json:"requirements"`
	}
	dec := json.NewDecoder(bytes.NewReader(result.JSON))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return types.ExamInfo{}, &ParseError{Message: "failed to decode exam info", Cause: err}
	}

	info := types.ExamInfo{
		URL:          strings.TrimSpace(raw.URL),
		Requirements: make([]string, 0, len(raw.Requirements)),
	}
	for _, item := range raw.Requirements {
		if s := scalar(item); s != "" {
			info.Requirements = append(info.Requirements, s)
		}
	}
	return info, nil
}
