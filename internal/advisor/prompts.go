package advisor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/career-pathway/internal/llm"
	"github.com/jonathan/career-pathway/internal/programs"
	"github.com/jonathan/career-pathway/internal/prompts"
	"github.com/jonathan/career-pathway/internal/types"
)

var (
	// assessment and suggestions sample widely for variety
	creativeParams = llm.GenerationParams{
		Temperature:     llm.Temperature(0.7),
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 4096,
	}
	// exam lookups favour stable, factual answers
	factualParams = llm.GenerationParams{
		Temperature:     llm.Temperature(0.3),
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 1024,
	}
)

// examInfoSchema is rendered into the exam prompt as the expected response shape.
var examInfoSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"url": {Type: llm.TypeString, Description: "https://official-website-url.com"},
		"requirements": {
			Type:  llm.TypeArray,
			Items: &llm.Schema{Type: llm.TypeString, Description: "Requirement 1"},
		},
	},
	Order:    []string{"url", "requirements"},
	Required: []string{"url", "requirements"},
}

// FormatAnswers renders quiz answers as a numbered list. List answers are comma-joined.
func FormatAnswers(answers []types.QuizAnswer) string {
	var sb strings.Builder
	sb.WriteString("User's Career Assessment Answers:\n\n")
	for i, a := range answers {
		fmt.Fprintf(&sb, "%d. %s\n   Answer: %s\n\n", i+1, strings.TrimSpace(a.Question), a.Answer.String())
	}
	return strings.TrimRight(sb.String(), "\n")
}

// AssessmentRequest builds the model request for a completed quiz.
func AssessmentRequest(answers []types.QuizAnswer) llm.Request {
	prompt := prompts.MustRender(prompts.CareerAssessment, map[string]string{
		"Answers": FormatAnswers(answers),
	})
	return llm.Request{Prompt: prompt, Tier: llm.TierStandard, Params: creativeParams}
}

// SuggestionsRequest builds the model request for autocomplete on a career interest.
func SuggestionsRequest(input string) llm.Request {
	prompt := prompts.MustRender(prompts.CareerSuggestions, map[string]string{
		"Input": strings.TrimSpace(input),
	})
	return llm.Request{Prompt: prompt, Tier: llm.TierLite, Params: creativeParams}
}

// PathwaySchema is the structured output schema for a pathway toward career.
func PathwaySchema(career string) *llm.Schema {
	stepTypes := make([]string, 0, len(types.StepTypes()))
	for _, t := range types.StepTypes() {
		stepTypes = append(stepTypes, string(t))
	}

	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"title": {Type: llm.TypeString, Description: fmt.Sprintf("Pathway to becoming a %s", strings.TrimSpace(career))},
			"steps": {
				Type: llm.TypeArray,
				Items: &llm.Schema{
					Type: llm.TypeObject,
					Properties: map[string]*llm.Schema{
						"type":        {Type: llm.TypeString, Enum: stepTypes},
						"level":       {Type: llm.TypeString, Description: "e.g., A.A. (MDC), B.S., M.S. (Optional), or type of step"},
						"name":        {Type: llm.TypeString, Description: "Name of the degree, exam, or step"},
						"description": {Type: llm.TypeString, Description: "A 1-2 sentence description of this step."},
					},
					Order:    []string{"type", "level", "name", "description"},
					Required: []string{"type", "level", "name", "description"},
				},
			},
		},
		Order:    []string{"title", "steps"},
		Required: []string{"title", "steps"},
	}
}

// PathwayRequest builds the model request for a pathway. The system instruction
// names the college described by catalog.
func PathwayRequest(career string, catalog *programs.Catalog) llm.Request {
	college, short := "the college", "the college"
	var pages []string
	if catalog != nil {
		college, short = catalog.College, catalog.ShortName
		for _, tier := range catalog.Tiers {
			if tier.Source != "" {
				pages = append(pages, tier.Source)
			}
		}
	}
	if len(pages) == 0 {
		pages = append(pages, "not available")
	}

	system := prompts.MustRender(prompts.PathwaySystem, map[string]string{
		"College":      college,
		"CollegeShort": short,
		"ProgramPages": strings.Join(pages, ", "),
	})
	user := prompts.MustRender(prompts.PathwayUser, map[string]string{
		"Career":       strings.TrimSpace(career),
		"CollegeShort": short,
	})

	schema := PathwaySchema(career)
	if catalog != nil && catalog.ShortName != "" {
		schema.Properties["steps"].Items.Properties["level"].Description =
			fmt.Sprintf("e.g., A.A. (%s), B.S., M.S. (Optional), or type of step", catalog.ShortName)
	}

	return llm.Request{
		Prompt:            user,
		SystemInstruction: system,
		Tier:              llm.TierStandard,
		Schema:            schema,
	}
}

// ExamSearchURL is the search link used when no official site is known.
// Spaces are encoded as %20.
func ExamSearchURL(examName string) string {
	q := url.QueryEscape(strings.TrimSpace(examName) + " official website")
	return "https://www.google.com/search?q=" + strings.ReplaceAll(q, "+", "%20")
}

// ExamInfoRequest builds the model request for exam registration details.
func ExamInfoRequest(examName string) llm.Request {
	prompt := prompts.MustRender(prompts.ExamInfo, map[string]string{
		"ExamName":    strings.TrimSpace(examName),
		"Format":      llm.DescribeSchema(examInfoSchema),
		"FallbackURL": ExamSearchURL(examName),
	})
	return llm.Request{Prompt: prompt, Tier: llm.TierLite, Params: factualParams, JSONOutput: true}
}
