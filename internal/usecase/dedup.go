package usecase

import (
	"context"
	"strings"

	"ReviewTriage/internal/domain"
)

// Index accumulates accepted summaries per category for one run.
type Index struct {
	summaries map[domain.Category][]string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{summaries: map[domain.Category][]string{}}
}

// Append records an accepted summary in delivery order.
func (x *Index) Append(category domain.Category, summary string) {
	x.summaries[category] = append(x.summaries[category], summary)
}

// Summaries returns a copy of the category's summaries.
func (x *Index) Summaries(category domain.Category) []string {
	return append([]string(nil), x.summaries[category]...)
}

// isDuplicate asks the oracle whether text repeats something already accepted in this run.
// Any answer other than 1, including a failed call, means "not a duplicate".
func (p *Pipeline) isDuplicate(ctx context.Context, run *RunState, category domain.Category, summary, text string) bool {
	known := run.Index.Summaries(category)
	if len(known) == 0 {
		return false
	}

	fields, err := p.gateway.Invoke(ctx, Prompt{
		System: duplicatePrompt,
		Human:  duplicateInstructions[category],
		Vars: map[string]string{
			"summaries": strings.Join(known, "\n"),
			"summary":   summary,
			"review":    text,
		},
	})
	if err != nil {
		run.logger.Warn("duplicate check failed, keeping item", "category", category, "error", err)
		return false
	}

	answer, ok := fields.Number("answer")
	return ok && answer == 1
}
