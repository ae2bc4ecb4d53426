// Package parsing maps extracted model JSON onto the application's typed records.
//
// Every missing optional field defaults to "". Records without a usable title or
// name are dropped rather than reported, so a partially bad response still yields
// whatever was salvageable.
package parsing

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/career-pathway/internal/extract"
	"github.com/jonathan/career-pathway/internal/types"
)

// Field-name fallbacks, tried in order.
var (
	titleKeys           = []string{"title", "name"}
	descriptionKeys     = []string{"description"}
	salaryKeys          = []string{"salary"}
	jobOutlookKeys      = []string{"jobOutlook", "job_outlook"}
	competitivenessKeys = []string{"competitiveness"}
	matchReasonKeys     = []string{"matchReason", "match_reason", "reason"}
)

// wrapperKeys are object keys whose array value holds the actual careers.
var wrapperKeys = []string{"careers", "suggestions"}

// MaxLineSuggestions caps the line heuristic.
const MaxLineSuggestions = 6

var (
	listMarker = regexp.MustCompile(`^[-•*]\s*`)
	edgeQuotes = regexp.MustCompile(`^["']|["']$`)
)

// ParseCareers runs the array extractor over generated text and normalizes the result.
// It returns a *ParseError when no JSON was recovered and an *EmptyResultError when
// JSON was recovered but held no titled record.
func ParseCareers(text string) ([]types.CareerSuggestion, error) {
	result := extract.Array(text)
	if !result.OK() {
		return nil, &ParseError{Message: "no JSON array found in response"}
	}

	careers, err := NormalizeCareers(result.JSON)
	if err != nil {
		return nil, err
	}
	if len(careers) == 0 {
		return nil, &EmptyResultError{What: "careers"}
	}
	return careers, nil
}

// NormalizeCareers converts loosely shaped JSON into career suggestions.
// Accepted inputs are an array of objects, an array of strings, a single object, or
// an object wrapping the array under "careers" or "suggestions".
func NormalizeCareers(raw json.RawMessage) ([]types.CareerSuggestion, error) {
	var value any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return nil, &ParseError{Message: "invalid JSON", Cause: err}
	}

	return normalizeValue(value), nil
}

func normalizeValue(value any) []types.CareerSuggestion {
	switch v := value.(type) {
	case []any:
		careers := make([]types.CareerSuggestion, 0, len(v))
		for _, item := range v {
			if c, ok := normalizeItem(item); ok {
				careers = append(careers, c)
			}
		}
		return careers
	case map[string]any:
		for _, key := range wrapperKeys {
			if inner, ok := v[key].([]any); ok {
				return normalizeValue(inner)
			}
		}
		if c, ok := normalizeItem(v); ok {
			return []types.CareerSuggestion{c}
		}
	}
	return []types.CareerSuggestion{}
}

func normalizeItem(item any) (types.CareerSuggestion, bool) {
	switch v := item.(type) {
	case string:
		title := strings.TrimSpace(v)
		return types.CareerSuggestion{Title: title}, title != ""
	case map[string]any:
		c := types.CareerSuggestion{
			Title:           field(v, titleKeys),
			Description:     field(v, descriptionKeys),
			Salary:          field(v, salaryKeys),
			JobOutlook:      field(v, jobOutlookKeys),
			Competitiveness: field(v, competitivenessKeys),
			MatchReason:     field(v, matchReasonKeys),
		}
		return c, c.Title != ""
	default:
		return types.CareerSuggestion{}, false
	}
}

// field returns the first non-empty scalar value among keys, trimmed.
func field(m map[string]any, keys []string) string {
	for _, key := range keys {
		if s := scalar(m[key]); s != "" {
			return s
		}
	}
	return ""
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// SuggestionsFromLines treats each plausible line of free text as a career title.
// List markers and one pair of surrounding quotes are stripped; lines whose cleaned
// length is outside (3, 100) are skipped. At most MaxLineSuggestions are returned.
func SuggestionsFromLines(text string) []types.CareerSuggestion {
	careers := []types.CareerSuggestion{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		title := edgeQuotes.ReplaceAllString(listMarker.ReplaceAllString(line, ""), "")
		if n := len([]rune(title)); n <= 3 || n >= 100 {
			continue
		}
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		careers = append(careers, types.CareerSuggestion{Title: title})
		if len(careers) == MaxLineSuggestions {
			break
		}
	}
	return careers
}
