package usecase

import (
	"context"
	"fmt"
	"strings"

	"ReviewTriage/internal/domain"
)

// aiThreshold is the machine-generated probability above which an item is rejected.
const aiThreshold = 0.8

// FilterVerdict is the content filter's accept/reject decision.
// Outcome is set only for rejected items.
type FilterVerdict struct {
	Accept  bool
	Outcome domain.Outcome
}

func accept() FilterVerdict { return FilterVerdict{Accept: true} }

func reject(outcome domain.Outcome) FilterVerdict {
	return FilterVerdict{Outcome: outcome}
}

// filter gates spam, NSFW and machine-generated items. Collaborator failures accept the item.
func (p *Pipeline) filter(ctx context.Context, run *RunState, item domain.ContentItem) FilterVerdict {
	src := run.Source
	run.progress.transient(ctx, fmt.Sprintf("Checking %s %s for spam.", src.Noun, item.URL))

	verdict := p.spamVerdict(ctx, run, item)
	switch verdict.Label {
	case domain.SpamLabelSpam:
		run.Counters.Spam++
		run.progress.transient(ctx, fmt.Sprintf("%s is spam. Skipping ticket creation.", capitalize(src.Noun)))
		return reject(domain.OutcomeSpam)
	case domain.SpamLabelNSFW:
		run.Counters.NSFW++
		run.progress.transient(ctx, fmt.Sprintf("%s is nsfw. Skipping ticket creation.", capitalize(src.Noun)))
		return reject(domain.OutcomeNSFW)
	}

	if src.DetectAI && p.detector != nil {
		prob, err := p.detector.ProbabilityAI(ctx, item.Text)
		if err != nil {
			run.logger.Warn("ai detector failed, treating as human-written", "url", item.URL, "error", err)
		} else if prob > aiThreshold {
			run.Counters.AIGenerated++
			run.progress.transient(ctx, fmt.Sprintf("%s is computer generated. Skipping ticket creation.", capitalize(src.Noun)))
			return reject(domain.OutcomeAIGenerated)
		}
	}

	run.progress.transient(ctx, fmt.Sprintf("%s is not spam.", capitalize(src.Noun)))
	return accept()
}

func (p *Pipeline) spamVerdict(ctx context.Context, run *RunState, item domain.ContentItem) domain.SpamVerdict {
	src := run.Source
	fields, err := p.gateway.Invoke(ctx, Prompt{
		System: spamPrompt,
		Vars: map[string]string{
			"label":   src.Label,
			"noun":    src.Noun,
			"context": src.DomainContext,
			"review":  item.DisplayTitle(src.Label) + "\n" + item.ComposedText(src.Label),
		},
	})
	if err != nil {
		run.logger.Warn("spam check failed, accepting item", "url", item.URL, "error", err)
		return domain.SpamVerdict{Label: domain.SpamLabelNotSpam}
	}

	label := domain.SpamLabel(strings.ToLower(fields.String("category")))
	switch label {
	case domain.SpamLabelSpam, domain.SpamLabelNSFW:
		return domain.SpamVerdict{Label: label, Reason: fields.String("reason")}
	default:
		return domain.SpamVerdict{Label: domain.SpamLabelNotSpam, Reason: fields.String("reason")}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
