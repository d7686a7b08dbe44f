package notify

import (
	"context"
	"log/slog"
	"sync"

	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/ports"
)

// maxTracked bounds how many replaceable primary ids keep their mirror ids.
const maxTracked = 64

// FanOut posts to a primary channel and mirrors every message to secondary ones.
// Mirror failures are logged; only the primary's result is returned.
type FanOut struct {
	primary ports.Notifier
	mirrors []ports.Notifier
	logger  *slog.Logger

	mu    sync.Mutex
	ids   map[string][]string
	order []string
}

var _ ports.Notifier = (*FanOut)(nil)

// NewFanOut wires the primary notifier with optional mirrors; nil mirrors are skipped.
func NewFanOut(primary ports.Notifier, logger *slog.Logger, mirrors ...ports.Notifier) *FanOut {
	kept := make([]ports.Notifier, 0, len(mirrors))
	for _, m := range mirrors {
		if m != nil {
			kept = append(kept, m)
		}
	}
	return &FanOut{primary: primary, mirrors: kept, logger: logger, ids: map[string][]string{}}
}

// Post delivers msg everywhere, translating ReplaceID into each mirror's own message id.
func (f *FanOut) Post(ctx context.Context, msg domain.Message) (string, error) {
	id, err := f.primary.Post(ctx, msg)

	f.mu.Lock()
	mirrorIDs := f.ids[msg.ReplaceID]
	f.mu.Unlock()

	posted := make([]string, len(f.mirrors))
	for i, mirror := range f.mirrors {
		mirrored := msg
		mirrored.ReplaceID = ""
		if msg.ReplaceID != "" && i < len(mirrorIDs) {
			mirrored.ReplaceID = mirrorIDs[i]
		}

		mid, merr := mirror.Post(ctx, mirrored)
		if merr != nil {
			if f.logger != nil {
				f.logger.Warn("mirror progress message", "mirror", i, "error", merr)
			}
			if mirrored.ReplaceID != "" {
				mid = mirrored.ReplaceID
			}
		}
		posted[i] = mid
	}

	if err != nil {
		return "", err
	}
	if id != "" && msg.ExpiresIn == 0 && len(f.mirrors) > 0 {
		f.track(id, posted)
	}
	return id, nil
}

// track remembers mirror ids for a non-expiring post, evicting the oldest beyond maxTracked.
func (f *FanOut) track(id string, posted []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.ids[id]; !ok {
		f.order = append(f.order, id)
	}
	f.ids[id] = posted

	for len(f.order) > maxTracked {
		delete(f.ids, f.order[0])
		f.order = f.order[1:]
	}
}
