package usecase

import (
	"context"
	"strings"

	"ReviewTriage/internal/domain"
)

// classify maps an accepted item onto the run's configured categories.
func (p *Pipeline) classify(ctx context.Context, run *RunState, item domain.ContentItem) domain.ClassificationResult {
	src := run.Source
	fields, err := p.gateway.Invoke(ctx, Prompt{
		System: classifyPrompt,
		Vars: map[string]string{
			"label":   src.Label,
			"noun":    src.Noun,
			"context": src.DomainContext,
			"review":  item.DisplayTitle(src.Label) + "\n" + item.ComposedText(src.Label),
		},
	})
	if err != nil {
		run.logger.Warn("classification failed", "url", item.URL, "error", err)
		return domain.ClassificationResult{Category: domain.CategoryUnrecognized}
	}

	result := domain.ClassificationResult{
		Category: domain.Category(strings.ToLower(fields.String("category"))),
		Summary:  fields.String("summary"),
		Reason:   fields.String("reason"),
	}
	return result.Validate(run.valid)
}
