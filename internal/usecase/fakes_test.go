package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/ports"
)

type fakeSource struct {
	items    []domain.ContentItem
	err      error
	requests []ports.FetchRequest
}

func (f *fakeSource) Fetch(_ context.Context, req ports.FetchRequest) ([]domain.ContentItem, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if req.Count < len(f.items) {
		return f.items[:req.Count], nil
	}
	return f.items, nil
}

type fakeNotifier struct {
	messages []domain.Message
	fail     bool
}

func (f *fakeNotifier) Post(_ context.Context, msg domain.Message) (string, error) {
	f.messages = append(f.messages, msg)
	if f.fail {
		return "", errors.New("timeline unavailable")
	}
	if msg.ReplaceID != "" {
		return msg.ReplaceID, nil
	}
	return fmt.Sprintf("msg-%d", len(f.messages)), nil
}

func (f *fakeNotifier) bodies() []string {
	out := make([]string, 0, len(f.messages))
	for _, m := range f.messages {
		out = append(out, m.Body)
	}
	return out
}

func (f *fakeNotifier) containing(substr string) []domain.Message {
	var out []domain.Message
	for _, m := range f.messages {
		if strings.Contains(m.Body, substr) {
			out = append(out, m)
		}
	}
	return out
}

type fakeTicketing struct {
	drafts []domain.TicketDraft
	fail   bool
}

func (f *fakeTicketing) CreateTicket(_ context.Context, draft domain.TicketDraft) (domain.TicketRef, error) {
	f.drafts = append(f.drafts, draft)
	if f.fail {
		return domain.TicketRef{}, errors.New("works.create: 500")
	}
	n := len(f.drafts)
	return domain.TicketRef{ID: fmt.Sprintf("don:work/%d", n), DisplayID: fmt.Sprintf("TKT-%d", n)}, nil
}

type fakeSentiment struct {
	scores map[string]ports.Sentiment
	err    error
}

func (f *fakeSentiment) Analyze(_ context.Context, text string) (ports.Sentiment, error) {
	if f.err != nil {
		return ports.Sentiment{}, f.err
	}
	for url, s := range f.scores {
		if strings.Contains(text, url) {
			return s, nil
		}
	}
	return ports.Sentiment{Label: "neutral"}, nil
}

type fakeDetector struct {
	probs map[string]float64
	err   error
	calls int
}

func (f *fakeDetector) ProbabilityAI(_ context.Context, text string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.probs[text], nil
}

// scriptedOracle answers by prompt kind, keyed on the item URL embedded in the prompt.
type scriptedOracle struct {
	spam       map[string]string
	categories map[string]string
	duplicates map[string]bool
	impact     string
	severity   float64
	failSpam   bool
	failImpact bool
	calls      map[string]int
	impactSeen []string
}

func newScriptedOracle() *scriptedOracle {
	return &scriptedOracle{
		spam:       map[string]string{},
		categories: map[string]string{},
		duplicates: map[string]bool{},
		impact:     "Users cannot log in",
		severity:   7,
		calls:      map[string]int{},
	}
}

func (o *scriptedOracle) Complete(_ context.Context, system, _ string) (string, error) {
	switch {
	case strings.Contains(system, "identifying spam"):
		o.calls["spam"]++
		if o.failSpam {
			return "", errors.New("oracle unavailable")
		}
		for url, label := range o.spam {
			if strings.Contains(system, url) {
				return fmt.Sprintf(`{"category": %q, "reason": "scripted"}`, label), nil
			}
		}
		return `{"category": "notspam", "reason": "looks genuine"}`, nil

	case strings.Contains(system, "labelling a"):
		o.calls["classify"]++
		for url, label := range o.categories {
			if strings.Contains(system, url) {
				return fmt.Sprintf(`{"category": %q, "summary": "summary of %s", "reason": "scripted"}`, label, url), nil
			}
		}
		return `not json at all`, nil

	case strings.HasPrefix(system, "Known summaries:"):
		o.calls["duplicate"]++
		query := system[strings.Index(system, "Query:"):]
		for url, dup := range o.duplicates {
			if dup && strings.Contains(query, url) {
				return `{"answer": 1}`, nil
			}
		}
		return `{"answer": 0}`, nil

	case strings.Contains(system, "business impact"):
		o.calls["impact"]++
		o.impactSeen = append(o.impactSeen, system)
		if o.failImpact {
			return "", errors.New("oracle unavailable")
		}
		return fmt.Sprintf("```json\n{\"impact\": %q, \"severity\": %v}\n```", o.impact, o.severity), nil

	case strings.Contains(system, `field "answer"`):
		o.calls["bestof"]++
		return `Sure! {"answer": "the representative one"}`, nil
	}
	return "", errors.New("unexpected prompt")
}
