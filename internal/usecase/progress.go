package usecase

import (
	"context"
	"log/slog"
	"time"

	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/ports"
)

const transientTTL = time.Minute

// progress posts best-effort messages; failures are logged and never abort the run.
type progress struct {
	notifier ports.Notifier
	logger   *slog.Logger
	statusID string
}

// transient posts a message that expires after a minute.
func (p *progress) transient(ctx context.Context, body string) {
	p.post(ctx, domain.Message{Body: body, ExpiresIn: transientTTL})
}

// announce posts a permanent message.
func (p *progress) announce(ctx context.Context, body string) {
	p.post(ctx, domain.Message{Body: body})
}

// status creates the run's status message once and then updates it in place.
func (p *progress) status(ctx context.Context, body string) {
	if id := p.post(ctx, domain.Message{Body: body, ReplaceID: p.statusID}); id != "" {
		p.statusID = id
	}
}

func (p *progress) post(ctx context.Context, msg domain.Message) string {
	if p.notifier == nil {
		p.logger.Info("progress", "message", msg.Body)
		return ""
	}
	id, err := p.notifier.Post(ctx, msg)
	if err != nil {
		p.logger.Warn("post progress message", "error", err)
		return ""
	}
	return id
}
