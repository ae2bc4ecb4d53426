package advisor

import (
	"context"
	"strings"

	"github.com/jonathan/career-pathway/internal/parsing"
	"github.com/jonathan/career-pathway/internal/types"
)

// Requirements used when the model's answer cannot be read.
var parseFallbackRequirements = []string{
	"Check the official certification website for specific education prerequisites",
	"Complete required coursework or training program",
	"Apply for examination with the certifying organization",
	"Pass the required examination(s)",
	"Meet state-specific or jurisdiction-specific requirements",
}

// Requirements used when the model could not be reached.
var upstreamFallbackRequirements = []string{
	"Check the official certification website for specific requirements",
	"Requirements may vary by state or jurisdiction",
	"Contact the certifying organization for the most current information",
}

// ParseFallbackExamInfo is returned when the model answered with unusable output.
func ParseFallbackExamInfo(examName string) types.ExamInfo {
	return types.ExamInfo{URL: ExamSearchURL(examName), Requirements: append([]string(nil), parseFallbackRequirements...)}
}

// UpstreamFallbackExamInfo is returned when the model call itself failed or no input was given.
func UpstreamFallbackExamInfo(examName string) types.ExamInfo {
	return types.ExamInfo{URL: ExamSearchURL(examName), Requirements: append([]string(nil), upstreamFallbackRequirements...)}
}

// ExamInfo looks up where to register for an exam and what it requires.
// A usable value is always returned; a non-nil error means it is a fallback.
func (a *Advisor) ExamInfo(ctx context.Context, examName string) (types.ExamInfo, error) {
	if strings.TrimSpace(examName) == "" {
		return UpstreamFallbackExamInfo(examName), ErrBlankInput
	}

	text, err := a.generate(ctx, "exam", ExamInfoRequest(examName))
	if err != nil {
		return UpstreamFallbackExamInfo(examName), err
	}

	info, err := parsing.ParseExamInfo(text)
	if err != nil {
		a.logParseMiss(ctx, "exam", text, err)
		return ParseFallbackExamInfo(examName), err
	}

	a.log(ctx).Debug("exam info parsed", "exam", examName, "requirements", len(info.Requirements))
	return info, nil
}
