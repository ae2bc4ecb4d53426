// Package types provides the request and response records shared by the career pathway services.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuizAnswer is one answered question from the career assessment quiz.
type QuizAnswer struct {
	Question string      `json:"question"`
	Answer   AnswerValue `json:"answer"`
}

// AnswerValue holds either a single free-text answer or an ordered list of selected options.
type AnswerValue []string

// UnmarshalJSON accepts a string, a list of strings, or null.
func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*a = nil
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("answer list must contain strings: %w", err)
		}
		*a = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("answer must be a string or list of strings: %w", err)
	}
	*a = AnswerValue{single}
	return nil
}

// MarshalJSON writes a single answer as a plain string and multiple answers as a list.
func (a AnswerValue) MarshalJSON() ([]byte, error) {
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}

// String joins the answer options the way they are presented to the model.
func (a AnswerValue) String() string {
	return strings.Join(a, ", ")
}

// CareerSuggestion is a career recommended by the model.
// Title is never empty once a suggestion leaves the normalizer; every other field defaults to "".
type CareerSuggestion struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Salary          string `json:"salary"`
	JobOutlook      string `json:"jobOutlook"`
	Competitiveness string `json:"competitiveness"`
	MatchReason     string `json:"matchReason"`
}

// SuggestionItem is the autocomplete projection of a CareerSuggestion (no match reason).
type SuggestionItem struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Salary          string `json:"salary"`
	JobOutlook      string `json:"jobOutlook"`
	Competitiveness string `json:"competitiveness"`
}

// ToSuggestionItems drops the match reason from each suggestion.
func ToSuggestionItems(careers []CareerSuggestion) []SuggestionItem {
	items := make([]SuggestionItem, 0, len(careers))
	for _, c := range careers {
		items = append(items, SuggestionItem{
			Title:           c.Title,
			Description:     c.Description,
			Salary:          c.Salary,
			JobOutlook:      c.JobOutlook,
			Competitiveness: c.Competitiveness,
		})
	}
	return items
}

// ExamInfo describes where to register for an exam and what it requires.
type ExamInfo struct {
	URL          string   `json:"url"`
	Requirements []string `json:"requirements"`
}
