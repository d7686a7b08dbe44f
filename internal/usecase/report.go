package usecase

import (
	"context"
	"fmt"
	"strings"

	"ReviewTriage/internal/domain"
)

// Report is the outcome of one run.
type Report struct {
	RunID    string
	Source   string
	Help     bool
	Aborted  bool
	Fetched  int
	Counters domain.RunCounters
	Tickets  []domain.TicketRef
}

func (run *RunState) report(fetched int) Report {
	return Report{
		RunID:    run.ID,
		Source:   run.Source.Name,
		Fetched:  fetched,
		Counters: run.Counters,
		Tickets:  run.Tickets,
	}
}

// summarize posts best-of-category answers, the sentiment trend and the counter breakdown.
func (p *Pipeline) summarize(ctx context.Context, run *RunState) {
	for _, best := range bestOfReports {
		summaries := run.Index.Summaries(best.category)
		if len(summaries) == 0 {
			run.logger.Info(best.empty)
			continue
		}

		fields, err := p.gateway.Invoke(ctx, Prompt{
			System: bestOfPrompt,
			Vars: map[string]string{
				"subject": best.subject,
				"items":   best.items,
				"ask":     best.ask,
				"context": run.Source.DomainContext,
				"review":  strings.Join(summaries, "\n\n"),
			},
		})
		if err != nil {
			run.logger.Warn("best-of summary failed", "category", best.category, "error", err)
			continue
		}
		if answer := fields.String("answer"); answer != "" {
			run.progress.announce(ctx, best.prefix+answer)
		}
	}

	if mean, ok := run.Counters.MeanSentiment(); ok {
		run.progress.announce(ctx, fmt.Sprintf(
			"Overall customer sentiment score: %.2f\n(Negative = -1, Neutral = 0, Positive = 1)", mean))
	}

	run.progress.announce(ctx, countsMessage(run.Source.Noun, run.Counters))
}

func countsMessage(noun string, c domain.RunCounters) string {
	lines := []string{
		fmt.Sprintf("Spam %ss: %d", noun, c.Spam),
		fmt.Sprintf("NSFW %ss: %d", noun, c.NSFW),
		fmt.Sprintf("AI-generated %ss detected: %d", noun, c.AIGenerated),
		fmt.Sprintf("Duplicate %ss: %d", noun, c.Duplicate),
		fmt.Sprintf("Uncategorized %ss: %d", noun, c.Unrecognized),
		fmt.Sprintf("Total feedback: %d", c.PerCategory[domain.CategoryFeedback]),
		fmt.Sprintf("Total bugs: %d", c.PerCategory[domain.CategoryBug]),
		fmt.Sprintf("Total feature requests: %d", c.PerCategory[domain.CategoryFeatureRequest]),
		fmt.Sprintf("Total questions: %d", c.PerCategory[domain.CategoryQuestion]),
		fmt.Sprintf("Tickets created: %d", c.TicketsCreated),
	}
	if c.TicketFailures > 0 {
		lines = append(lines, fmt.Sprintf("Tickets failed: %d", c.TicketFailures))
	}
	return strings.Join(lines, "\n")
}
