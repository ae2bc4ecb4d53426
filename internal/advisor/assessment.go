package advisor

import (
	"context"
	"errors"

	"github.com/jonathan/career-pathway/internal/logging"
	"github.com/jonathan/career-pathway/internal/parsing"
	"github.com/jonathan/career-pathway/internal/types"
)

// Assess recommends careers for a completed quiz. Every failure is returned,
// including responses that parse but hold no titled career.
func (a *Advisor) Assess(ctx context.Context, answers []types.QuizAnswer) ([]types.CareerSuggestion, error) {
	text, err := a.generate(ctx, "assessment", AssessmentRequest(answers))
	if err != nil {
		return nil, err
	}

	careers, err := parsing.ParseCareers(text)
	if err != nil {
		a.logParseMiss(ctx, "assessment", text, err)
		return nil, err
	}

	a.log(ctx).Info("careers parsed", "flow", "assessment", "count", len(careers))
	return careers, nil
}

func (a *Advisor) logParseMiss(ctx context.Context, flow, text string, err error) {
	var empty *parsing.EmptyResultError
	msg := "no JSON recovered from model output"
	if errors.As(err, &empty) {
		msg = "model output held no valid records"
	}
	a.log(ctx).Warn(msg, "flow", flow, "error", err, "raw", logging.Truncate(text))
}
