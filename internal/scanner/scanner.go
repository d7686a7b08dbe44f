package scanner

import (
	"context"
	"fmt"

	"ReviewTriage/internal/domain"
)

// Request carries everything a strategy needs to fetch one batch.
type Request struct {
	SourceName string
	Query      string
	AppID      string
	Count      int
	Sort       string
	Options    map[string]string
}

// Scanner captures a single strategy implementation (Play Store, App Store, Twitter).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.ContentItem, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds a registry holding the given scanners.
func NewRegistry(scanners ...Scanner) *Registry {
	r := &Registry{scanners: map[string]Scanner{}}
	for _, s := range scanners {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}

// Truncate caps items at count; a non-positive count keeps everything.
func Truncate(items []domain.ContentItem, count int) []domain.ContentItem {
	if count > 0 && len(items) > count {
		return items[:count]
	}
	return items
}
