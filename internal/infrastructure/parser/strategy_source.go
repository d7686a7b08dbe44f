package parser

import (
	"context"
	"fmt"
	"log/slog"

	"ReviewTriage/internal/config"
	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/ports"
	"ReviewTriage/internal/scanner"
)

// StrategySource implements ContentSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sources  []config.SourceConfig
	logger   *slog.Logger
}

var _ ports.ContentSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sources.
func NewStrategySource(reg *scanner.Registry, sources []config.SourceConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sources:  sources,
		logger:   log,
	}
}

// Fetch resolves the named source to its scanner and runs one scan.
func (s *StrategySource) Fetch(ctx context.Context, req ports.FetchRequest) ([]domain.ContentItem, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	src, ok := s.lookup(req.Source)
	if !ok {
		return nil, fmt.Errorf("source %s is not configured", req.Source)
	}

	strategy, err := s.registry.Resolve(src.Scanner)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.Name, err)
	}

	sort := req.Sort
	if sort == "" {
		sort = src.Sort
	}

	s.debug("scan source", "source", src.Name, "scanner", src.Scanner, "count", req.Count)
	items, err := strategy.Scan(ctx, scanner.Request{
		SourceName: src.Name,
		Query:      src.Query,
		AppID:      src.AppID,
		Count:      req.Count,
		Sort:       sort,
		Options:    src.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("scan source %s: %w", src.Name, err)
	}

	for i := range items {
		if items[i].Source == "" {
			items[i].Source = src.Name
		}
	}
	s.debug("source produced items", "source", src.Name, "count", len(items))
	return items, nil
}

func (s *StrategySource) lookup(name string) (config.SourceConfig, bool) {
	return config.Config{Sources: s.sources}.Source(name)
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
