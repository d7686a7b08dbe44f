package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ReviewTriage/internal/config"
	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/infrastructure/devrev"
	"ReviewTriage/internal/infrastructure/llm"
	"ReviewTriage/internal/infrastructure/ml"
	"ReviewTriage/internal/infrastructure/notify"
	"ReviewTriage/internal/infrastructure/parser"
	"ReviewTriage/internal/infrastructure/scheduler"
	"ReviewTriage/internal/infrastructure/telegram"
	"ReviewTriage/internal/logging"
	"ReviewTriage/internal/ports"
	"ReviewTriage/internal/scanner"
	"ReviewTriage/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application from configuration. Collaborators without
// credentials are left unwired; the pipeline treats them as failing.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := scanner.NewRegistry(
		parser.NewPlayStoreScanner(nil, ""),
		parser.NewAppStoreScanner(nil, ""),
		parser.NewTwitterScanner(nil, "", cfg.RapidAPI.APIKey),
	)
	source := parser.NewStrategySource(registry, cfg.Sources, baseLogger.With("component", "source"))

	oracle, err := newOracle(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	if oracle == nil {
		baseLogger.Warn("no oracle credentials, every item will be filed as unrecognized")
	}

	var sentiment ports.SentimentAnalyzer
	if cfg.RapidAPI.APIKey != "" {
		sentiment = ml.NewSentimentClient(cfg.Sentiment, cfg.RapidAPI.APIKey)
	}

	var detector ports.AIDetector
	if cfg.Detector.APIKey != "" {
		detector = ml.NewDetectorClient(cfg.Detector)
	}

	var (
		ticketing ports.Ticketing
		primary   ports.Notifier
	)
	if cfg.DevRev.Token != "" {
		client := devrev.NewClient(cfg.DevRev)
		ticketing = client
		if cfg.DevRev.SnapInID != "" {
			primary = client
		}
	} else {
		baseLogger.Warn("no devrev token, tickets will not be filed")
	}

	var mirror ports.Notifier
	if cfg.Telegram.BotToken != "" {
		tg, err := telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, "")
		if err != nil {
			baseLogger.Warn("telegram mirror disabled", "error", err)
		} else {
			mirror = tg
		}
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:    source,
		Oracle:    oracle,
		Sentiment: sentiment,
		Detector:  detector,
		Ticketing: ticketing,
		Notifier:  progressChannel(primary, mirror, baseLogger),
		Sources:   Profiles(cfg.Sources),
		Tickets:   TicketDefaults(cfg.Tickets),
		Command:   usecase.CommandPolicy{DefaultCount: cfg.Command.DefaultCount, Strict: cfg.Command.StrictCount},
		Logger:    baseLogger.With("component", "pipeline"),
	})
	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger}, nil
}

func newOracle(ctx context.Context, cfg config.LLMConfig) (ports.Oracle, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		client, err := llm.NewGeminiClient(ctx, cfg, nil, "")
		if err != nil {
			return nil, fmt.Errorf("gemini oracle: %w", err)
		}
		return client, nil
	case "", "openai", "fireworks":
		return llm.NewChatGPTClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func progressChannel(primary, mirror ports.Notifier, logger *slog.Logger) ports.Notifier {
	switch {
	case primary != nil && mirror != nil:
		return notify.NewFanOut(primary, logger.With("component", "notify"), mirror)
	case primary != nil:
		return primary
	default:
		return mirror
	}
}

// Profiles converts configured sources into pipeline profiles.
func Profiles(sources []config.SourceConfig) []usecase.SourceProfile {
	out := make([]usecase.SourceProfile, 0, len(sources))
	for _, src := range sources {
		out = append(out, usecase.SourceProfile{
			Name:          strings.ToLower(src.Name),
			Label:         src.Label,
			Noun:          src.Noun,
			DomainContext: src.DomainContext(),
			Sort:          src.Sort,
			MaxCount:      src.MaxCount,
			DetectAI:      src.DetectAI,
		})
	}
	return out
}

// TicketDefaults maps the configured tag ids onto categories; unknown keys are dropped.
func TicketDefaults(cfg config.TicketConfig) usecase.TicketDefaults {
	tags := make(map[domain.Category]string, len(cfg.Tags))
	for key, tag := range cfg.Tags {
		category := domain.Category(strings.ToLower(strings.TrimSpace(key)))
		if category.Known() && tag != "" {
			tags[category] = tag
		}
	}
	return usecase.TicketDefaults{
		Owner:    cfg.Owner,
		Part:     cfg.Part,
		WorkType: cfg.WorkType,
		Tags:     tags,
	}
}

// Run performs a single pipeline execution for the named source.
func (a *Application) Run(ctx context.Context, source, params string) (usecase.Report, error) {
	return a.pipeline.Run(ctx, usecase.RunRequest{Source: strings.ToLower(source), Parameters: params})
}

// Watch re-runs the source on the configured interval until ctx is cancelled.
func (a *Application) Watch(ctx context.Context, source, params string) error {
	if _, ok := a.cfg.Source(source); !ok {
		return fmt.Errorf("source %q is not configured", source)
	}

	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval, a.cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, a.pipeline, usecase.RunRequest{Source: strings.ToLower(source), Parameters: params})
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("watching source", "source", source, "every", a.cfg.Scheduler.Interval)

	<-ctx.Done()
	return sched.Stop(context.WithoutCancel(ctx))
}

// Sources lists the configured source profiles.
func (a *Application) Sources() []usecase.SourceProfile {
	return a.pipeline.Sources()
}
