package scanner

import (
	"context"
	"testing"

	"ReviewTriage/internal/domain"
)

type stubScanner struct{ name string }

func (s stubScanner) Name() string { return s.name }

func (s stubScanner) Scan(context.Context, Request) ([]domain.ContentItem, error) {
	return nil, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(stubScanner{name: "playstore"})
	reg.Register(stubScanner{name: "twitter"})

	if _, err := reg.Resolve("twitter"); err != nil {
		t.Fatalf("resolve twitter: %v", err)
	}
	if _, err := reg.Resolve("ieee"); err == nil {
		t.Fatalf("expected error for unknown scanner")
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	items := []domain.ContentItem{{ID: "1"}, {ID: "2"}, {ID: "3"}}
	if got := Truncate(items, 2); len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got := Truncate(items, 0); len(got) != 3 {
		t.Fatalf("expected all items, got %d", len(got))
	}
}
