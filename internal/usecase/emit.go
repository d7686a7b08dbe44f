package usecase

import (
	"context"
	"fmt"
	"strings"

	"ReviewTriage/internal/domain"
)

func (p *Pipeline) draft(run *RunState, acc acceptedItem, handler categoryHandler, e domain.Enrichment) domain.TicketDraft {
	label := run.Source.Label

	var body strings.Builder
	body.WriteString(acc.item.ComposedText(label))
	body.WriteString(handler.narrative(acc, e))
	if acc.item.HasMedia() {
		body.WriteString("\n\nlinked image ")
		body.WriteString(strings.Join(acc.item.MediaURLs, ", "))
	}

	return domain.TicketDraft{
		Title:    acc.item.DisplayTitle(label),
		Body:     body.String(),
		Category: acc.class.Category,
		Tags:     []string{p.tickets.Tags[acc.class.Category]},
		Owner:    p.tickets.Owner,
		Part:     p.tickets.Part,
		WorkType: p.tickets.WorkType,
	}
}

// emit submits the draft once; a backend failure is logged and the item is skipped.
func (p *Pipeline) emit(ctx context.Context, run *RunState, draft domain.TicketDraft) (domain.TicketRef, bool) {
	if p.ticketing == nil {
		run.logger.Warn("ticketing backend is not configured, dropping ticket", "title", draft.Title)
		run.Counters.TicketFailures++
		return domain.TicketRef{}, false
	}

	ref, err := p.ticketing.CreateTicket(ctx, draft)
	if err != nil {
		run.logger.Error("create ticket", "title", draft.Title, "category", draft.Category, "error", err)
		run.Counters.TicketFailures++
		return domain.TicketRef{}, false
	}

	run.Counters.TicketsCreated++
	run.Tickets = append(run.Tickets, ref)
	run.progress.transient(ctx, fmt.Sprintf("Created ticket: <%s> and it is categorized as %s", ref, draft.Category))
	return ref, true
}
