package advisor

import (
	"context"
	"errors"
	"strings"

	"github.com/jonathan/career-pathway/internal/parsing"
	"github.com/jonathan/career-pathway/internal/types"
)

// ErrBlankInput is reported when a lenient flow receives no usable input.
var ErrBlankInput = errors.New("input is required and must be a non-empty string")

// Suggest returns autocomplete careers for a partial interest. The result is never
// nil; on any failure it is empty and the error explains why.
// When no JSON can be recovered, plausible lines of the raw text are used as titles.
func (a *Advisor) Suggest(ctx context.Context, input string) ([]types.SuggestionItem, error) {
	if strings.TrimSpace(input) == "" {
		return []types.SuggestionItem{}, ErrBlankInput
	}

	text, err := a.generate(ctx, "suggestions", SuggestionsRequest(input))
	if err != nil {
		return []types.SuggestionItem{}, err
	}

	careers, err := parsing.ParseCareers(text)
	if err != nil {
		a.logParseMiss(ctx, "suggestions", text, err)

		var parseErr *parsing.ParseError
		if !errors.As(err, &parseErr) {
			return []types.SuggestionItem{}, nil
		}
		careers = parsing.SuggestionsFromLines(text)
	}

	a.log(ctx).Debug("suggestions parsed", "count", len(careers))
	return types.ToSuggestionItems(careers), nil
}
