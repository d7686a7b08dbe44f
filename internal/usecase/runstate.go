package usecase

import (
	"log/slog"

	"github.com/google/uuid"

	"ReviewTriage/internal/domain"
)

// SourceProfile describes a configured source as the pipeline sees it.
type SourceProfile struct {
	Name          string
	Label         string
	Noun          string
	DomainContext string
	Sort          string
	MaxCount      int
	DetectAI      bool
}

// TicketDefaults are stamped on every ticket a run files.
type TicketDefaults struct {
	Owner    string
	Part     string
	WorkType string
	Tags     map[domain.Category]string
}

// RunState is built at the start of a run and threaded through every stage.
type RunState struct {
	ID       string
	Source   SourceProfile
	Counters domain.RunCounters
	Index    *Index
	Tickets  []domain.TicketRef

	valid    map[domain.Category]bool
	progress *progress
	logger   *slog.Logger
}

func (p *Pipeline) newRunState(src SourceProfile) *RunState {
	id := uuid.NewString()
	logger := p.logger.With("run_id", id, "source", src.Name)

	valid := make(map[domain.Category]bool, len(p.tickets.Tags))
	for category, tag := range p.tickets.Tags {
		if category.Known() && tag != "" {
			valid[category] = true
		}
	}

	return &RunState{
		ID:       id,
		Source:   src,
		Counters: domain.NewRunCounters(),
		Index:    NewIndex(),
		valid:    valid,
		progress: &progress{notifier: p.notifier, logger: logger},
		logger:   logger,
	}
}
