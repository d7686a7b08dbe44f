package ports

import (
	"context"
	"time"

	"ReviewTriage/internal/domain"
)

// FetchRequest asks a content source for a bounded batch of items.
type FetchRequest struct {
	Source string
	Count  int
	Sort   string
}

// ContentSource pulls user-generated items from upstream providers.
type ContentSource interface {
	Fetch(ctx context.Context, req FetchRequest) ([]domain.ContentItem, error)
}

// Oracle is a natural-language inference backend answering with JSON text.
type Oracle interface {
	Complete(ctx context.Context, system, human string) (string, error)
}

// Sentiment is the verdict of a sentiment oracle.
type Sentiment struct {
	Label string
	Score float64
}

// SentimentAnalyzer scores the sentiment of a text.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (Sentiment, error)
}

// AIDetector estimates the probability that a text was machine-generated.
type AIDetector interface {
	ProbabilityAI(ctx context.Context, text string) (float64, error)
}

// Ticketing files work items in the issue tracker.
type Ticketing interface {
	CreateTicket(ctx context.Context, draft domain.TicketDraft) (domain.TicketRef, error)
}

// Notifier posts progress messages to the run's channel and returns the post id.
type Notifier interface {
	Post(ctx context.Context, msg domain.Message) (string, error)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
