package advisor

import (
	"context"

	"github.com/jonathan/career-pathway/internal/parsing"
	"github.com/jonathan/career-pathway/internal/types"
)

// GeneratePathway produces a pathway toward career. Steps that name catalog
// programs get a link. Every failure is returned.
func (a *Advisor) GeneratePathway(ctx context.Context, career string) (*types.Pathway, error) {
	req := PathwayRequest(career, a.catalog())

	text, err := a.generate(ctx, "pathway", req)
	if err != nil {
		return nil, err
	}

	pathway, err := parsing.ParsePathway(text, career)
	if err != nil {
		a.logParseMiss(ctx, "pathway", text, err)
		return nil, err
	}

	a.LinkSteps(pathway)
	a.log(ctx).Info("pathway generated", "career", career, "steps", len(pathway.Steps))
	return pathway, nil
}

// LinkSteps sets or clears each step's link using the program resolver.
func (a *Advisor) LinkSteps(pathway *types.Pathway) {
	for i := range pathway.Steps {
		pathway.Steps[i].Link = ""
		if a.resolver == nil {
			continue
		}
		if link, ok := a.resolver.Link(pathway.Steps[i]); ok {
			pathway.Steps[i].Link = link
		}
	}
}
