package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/ports"
)

// PipelineDeps wires all driven adapters into the triage pipeline.
type PipelineDeps struct {
	Source    ports.ContentSource
	Oracle    ports.Oracle
	Sentiment ports.SentimentAnalyzer
	Detector  ports.AIDetector
	Ticketing ports.Ticketing
	Notifier  ports.Notifier
	Sources   []SourceProfile
	Tickets   TicketDefaults
	Command   CommandPolicy
	Logger    *slog.Logger
}

// Pipeline implements the filter → classify → deduplicate → enrich → emit workflow.
// It holds no per-run state; each Run builds its own RunState.
type Pipeline struct {
	source    ports.ContentSource
	gateway   *Gateway
	sentiment ports.SentimentAnalyzer
	detector  ports.AIDetector
	ticketing ports.Ticketing
	notifier  ports.Notifier
	sources   map[string]SourceProfile
	tickets   TicketDefaults
	command   CommandPolicy
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	sources := make(map[string]SourceProfile, len(deps.Sources))
	for _, src := range deps.Sources {
		sources[src.Name] = src
	}

	return &Pipeline{
		source:    deps.Source,
		gateway:   NewGateway(deps.Oracle),
		sentiment: deps.Sentiment,
		detector:  deps.Detector,
		ticketing: deps.Ticketing,
		notifier:  deps.Notifier,
		sources:   sources,
		tickets:   deps.Tickets,
		command:   deps.Command,
		logger:    logger,
	}
}

// RunRequest names the source to triage and carries the raw parameter string.
type RunRequest struct {
	Source     string
	Parameters string
}

// Run fetches one batch from the source and triages every item in delivery order.
// Item-level failures never surface as errors; only wiring problems do.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (Report, error) {
	src, ok := p.sources[req.Source]
	if !ok {
		return Report{}, fmt.Errorf("source %q is not configured", req.Source)
	}
	if p.source == nil {
		return Report{}, errors.New("content source is not configured")
	}

	run := p.newRunState(src)
	cmd := ParseCommand(req.Parameters, src.MaxCount, p.command)

	if cmd.Help {
		run.progress.announce(ctx, usage(src, p.command.DefaultCount))
		report := run.report(0)
		report.Help = true
		return report, nil
	}

	run.progress.transient(ctx, fmt.Sprintf("Fetching %ss from %s. Please wait.", src.Noun, src.Name))

	if cmd.Notice != "" {
		run.progress.status(ctx, cmd.Notice)
		if cmd.Abort {
			run.logger.Info("run stopped on invalid parameters", "parameters", req.Parameters)
			report := run.report(0)
			report.Aborted = true
			return report, nil
		}
	}

	items, err := p.source.Fetch(ctx, ports.FetchRequest{Source: src.Name, Count: cmd.Count, Sort: src.Sort})
	if err != nil {
		run.logger.Warn("fetch items", "error", err)
	}
	if len(items) == 0 {
		run.progress.status(ctx, fmt.Sprintf("No %ss found", src.Noun))
		return run.report(0), nil
	}

	run.logger.Info("triage started", "items", len(items), "requested", cmd.Count)
	run.progress.transient(ctx, fmt.Sprintf("Fetched %d %ss, creating tickets now.", len(items), src.Noun))

	for _, item := range items {
		outcome := p.process(ctx, run, item)
		run.logger.Debug("item processed", "url", item.URL, "outcome", outcome)
	}

	p.summarize(ctx, run)
	run.logger.Info("triage finished",
		"items", len(items),
		"tickets", run.Counters.TicketsCreated,
		"duplicates", run.Counters.Duplicate)

	return run.report(len(items)), nil
}

// process drives one item to exactly one terminal outcome.
func (p *Pipeline) process(ctx context.Context, run *RunState, item domain.ContentItem) domain.Outcome {
	src := run.Source

	if verdict := p.filter(ctx, run, item); !verdict.Accept {
		return verdict.Outcome
	}

	class := p.classify(ctx, run, item)
	handler, ok := handlers[class.Category]
	if !class.Recognized() || !ok {
		run.Counters.Unrecognized++
		run.progress.transient(ctx, fmt.Sprintf(
			"The %s doesn't fit in any of the categories. %s. Skipping ticket creation.", src.Noun, item.URL))
		return domain.OutcomeUnrecognized
	}

	text := item.ComposedText(src.Label)
	if p.isDuplicate(ctx, run, class.Category, class.Summary, text) {
		run.Counters.Duplicate++
		run.progress.transient(ctx, fmt.Sprintf(
			"Similar %s already flagged for %s. Skipping ticket creation.", class.Category, item.URL))
		return domain.OutcomeDuplicate
	}

	run.Index.Append(class.Category, class.Summary)
	run.Counters.PerCategory[class.Category]++

	acc := acceptedItem{item: item, class: class}
	enrichment := handler.enrich(ctx, p, run, acc)
	p.emit(ctx, run, p.draft(run, acc, handler, enrichment))

	return domain.OutcomeAccepted
}

// Sources lists the configured source profiles.
func (p *Pipeline) Sources() []SourceProfile {
	out := make([]SourceProfile, 0, len(p.sources))
	for _, src := range p.sources {
		out = append(out, src)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
