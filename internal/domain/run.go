package domain

import "time"

// Outcome is the terminal state of one item's pass through the pipeline.
type Outcome string

const (
	OutcomeSpam         Outcome = "spam"
	OutcomeNSFW         Outcome = "nsfw"
	OutcomeAIGenerated  Outcome = "ai_generated"
	OutcomeDuplicate    Outcome = "duplicate"
	OutcomeUnrecognized Outcome = "unrecognized"
	OutcomeAccepted     Outcome = "accepted"
)

// RunCounters tallies terminal outcomes for one run.
type RunCounters struct {
	Spam           int
	NSFW           int
	AIGenerated    int
	Duplicate      int
	Unrecognized   int
	PerCategory    map[Category]int
	SentimentTotal float64

	TicketsCreated int
	TicketFailures int
}

// NewRunCounters returns zeroed counters with the category map allocated.
func NewRunCounters() RunCounters {
	return RunCounters{PerCategory: map[Category]int{}}
}

// Accepted sums the per-category totals.
func (c RunCounters) Accepted() int {
	total := 0
	for _, n := range c.PerCategory {
		total += n
	}
	return total
}

// Terminal is the number of items that reached any terminal outcome.
func (c RunCounters) Terminal() int {
	return c.Spam + c.NSFW + c.AIGenerated + c.Duplicate + c.Unrecognized + c.Accepted()
}

// MeanSentiment averages the accumulated feedback sentiment.
func (c RunCounters) MeanSentiment() (float64, bool) {
	n := c.PerCategory[CategoryFeedback]
	if n == 0 {
		return 0, false
	}
	return c.SentimentTotal / float64(n), true
}

// TicketDraft is assembled immediately before submission to the ticketing backend.
type TicketDraft struct {
	Title    string
	Body     string
	Category Category
	Tags     []string
	Owner    string
	Part     string
	WorkType string
}

// TicketRef identifies a created ticket.
type TicketRef struct {
	ID        string
	DisplayID string
}

// String prefers the human-facing display id.
func (t TicketRef) String() string {
	if t.DisplayID != "" {
		return t.DisplayID
	}
	return t.ID
}

// Message is a progress post; ReplaceID updates an existing post in place.
type Message struct {
	Body      string
	ExpiresIn time.Duration
	ReplaceID string
}
