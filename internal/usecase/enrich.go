package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"ReviewTriage/internal/domain"
)

// acceptedItem is an item that passed filtering, classification and deduplication.
type acceptedItem struct {
	item  domain.ContentItem
	class domain.ClassificationResult
}

// categoryHandler enriches one category and renders its part of the ticket body.
type categoryHandler interface {
	enrich(ctx context.Context, p *Pipeline, run *RunState, acc acceptedItem) domain.Enrichment
	narrative(acc acceptedItem, e domain.Enrichment) string
}

var handlers = map[domain.Category]categoryHandler{
	domain.CategoryBug:            impactHandler{kind: "bug", textLabel: "Bug text"},
	domain.CategoryFeatureRequest: impactHandler{kind: "feature request", textLabel: "Feature request", withTitle: true},
	domain.CategoryFeedback:       feedbackHandler{},
	domain.CategoryQuestion:       questionHandler{},
}

// impactHandler scores business impact and severity for bugs and feature requests.
// withTitle leads the seed with the item title.
type impactHandler struct {
	kind      string
	textLabel string
	withTitle bool
}

func (h impactHandler) enrich(ctx context.Context, p *Pipeline, run *RunState, acc acceptedItem) domain.Enrichment {
	src := run.Source
	seed := fmt.Sprintf("Summary: %s\n\nReason: %s\n\n%s: %s",
		acc.class.Summary, acc.class.Reason, h.textLabel, acc.item.Text)
	if h.withTitle {
		seed = "Title: " + acc.item.DisplayTitle(src.Label) + "\n\n" + seed
	}

	fields, err := p.gateway.Invoke(ctx, Prompt{
		System: impactPrompt,
		Vars: map[string]string{
			"kind":    h.kind,
			"noun":    src.Noun,
			"context": src.DomainContext,
			"review":  seed,
		},
	})
	if err != nil {
		run.logger.Warn("impact assessment failed", "kind", h.kind, "url", acc.item.URL, "error", err)
		return domain.Enrichment{}
	}

	severity, _ := fields.Number("severity")
	return domain.Enrichment{Impact: fields.String("impact"), Severity: severity}
}

func (h impactHandler) narrative(_ acceptedItem, e domain.Enrichment) string {
	var b strings.Builder
	if e.Impact != "" {
		b.WriteString("\n\nBusiness impact: ")
		b.WriteString(e.Impact)
	}
	b.WriteString("\n\nSeverity: ")
	b.WriteString(strconv.FormatFloat(e.Severity, 'g', -1, 64))
	return b.String()
}

// feedbackHandler scores sentiment with the dedicated sentiment oracle.
type feedbackHandler struct{}

func (feedbackHandler) enrich(ctx context.Context, p *Pipeline, run *RunState, acc acceptedItem) domain.Enrichment {
	if p.sentiment == nil {
		return domain.Enrichment{}
	}

	result, err := p.sentiment.Analyze(ctx, acc.item.ComposedText(run.Source.Label))
	if err != nil {
		run.logger.Warn("sentiment analysis failed", "url", acc.item.URL, "error", err)
		return domain.Enrichment{}
	}

	run.Counters.SentimentTotal += result.Score
	return domain.Enrichment{SentimentLabel: result.Label, SentimentScore: result.Score}
}

func (feedbackHandler) narrative(acc acceptedItem, e domain.Enrichment) string {
	return fmt.Sprintf("\n\nReview summary: %s\n\nFeedback sentiment: %s\n\nSentiment score: %.2f",
		acc.class.Summary, e.SentimentLabel, e.SentimentScore)
}

// questionHandler files questions as-is.
type questionHandler struct{}

func (questionHandler) enrich(context.Context, *Pipeline, *RunState, acceptedItem) domain.Enrichment {
	return domain.Enrichment{}
}

func (questionHandler) narrative(acceptedItem, domain.Enrichment) string {
	return ""
}
