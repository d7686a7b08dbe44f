package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ReviewTriage/internal/scanner"
)

// reviewCall is the decoded review-list request a fake server received.
type reviewCall struct {
	appID string
	order int
	num   int
	token string
}

// decodeReviewCall runs inside handlers, so it reports with Errorf.
func decodeReviewCall(t *testing.T, r *http.Request) reviewCall {
	t.Helper()

	if err := r.ParseForm(); err != nil {
		t.Errorf("parse form: %v", err)
		return reviewCall{}
	}
	var envelope [][][]any
	if err := json.Unmarshal([]byte(r.PostForm.Get("f.req")), &envelope); err != nil {
		t.Errorf("decode f.req: %v", err)
		return reviewCall{}
	}
	if rpc := envelope[0][0][0]; rpc != reviewsRPC {
		t.Errorf("unexpected rpc %v", rpc)
	}

	var args []any
	if err := json.Unmarshal([]byte(str(envelope[0][0][1])), &args); err != nil {
		t.Errorf("decode args: %v", err)
		return reviewCall{}
	}
	order, _ := at(args, 2, 1).(float64)
	num, _ := at(args, 2, 2, 0).(float64)
	return reviewCall{
		appID: str(at(args, 3, 0)),
		order: int(order),
		num:   int(num),
		token: str(at(args, 2, 2, 2)),
	}
}

// reviewsResponse renders n reviews with ids starting at first, followed by next when non-empty.
func reviewsResponse(t *testing.T, first, n int, next string) []byte {
	t.Helper()

	reviews := make([]any, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("gp:%d", first+i)
		reviews = append(reviews, []any{
			id,
			[]any{fmt.Sprintf("user%d", first+i), []any{nil, 2, []any{nil, nil, "https://avatar.test"}}},
			4,
			nil,
			fmt.Sprintf("Review %d text", first+i),
			[]any{1714550400, 0},
		})
	}

	var token any
	if next != "" {
		token = next
	}
	payload, err := json.Marshal([]any{reviews, []any{nil, token}})
	if err != nil {
		t.Errorf("marshal payload: %v", err)
	}
	frames, err := json.Marshal([]any{
		[]any{"wrb.fr", reviewsRPC, string(payload), nil, nil, nil, "generic"},
		[]any{"di", 42},
	})
	if err != nil {
		t.Errorf("marshal frames: %v", err)
	}
	return append([]byte(")]}'\n\n"), frames...)
}

func TestPlayStoreEndpoint(t *testing.T) {
	t.Parallel()

	sc := NewPlayStoreScanner(nil, "")
	got, err := sc.endpoint("", "")
	if err != nil {
		t.Fatalf("endpoint returned error: %v", err)
	}
	want := "https://play.google.com/_/PlayStoreUi/data/batchexecute?gl=us&hl=en"
	if got != want {
		t.Fatalf("endpoint = %s, want %s", got, want)
	}
}

func TestPlayStoreScannerPaginates(t *testing.T) {
	t.Parallel()

	var calls []reviewCall
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/_/PlayStoreUi/data/batchexecute" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		call := decodeReviewCall(t, r)
		calls = append(calls, call)

		switch call.token {
		case "":
			_, _ = w.Write(reviewsResponse(t, 1, 3, "tok-2"))
		case "tok-2":
			_, _ = w.Write(reviewsResponse(t, 4, 3, "tok-3"))
		case "tok-3":
			_, _ = w.Write(reviewsResponse(t, 7, 3, ""))
		default:
			t.Errorf("unexpected token %q", call.token)
		}
	}))
	defer server.Close()

	sc := NewPlayStoreScanner(server.Client(), server.URL)
	items, err := sc.Scan(context.Background(), scanner.Request{
		SourceName: "playstore",
		AppID:      "com.example.app",
		Count:      7,
		Sort:       "rating",
	})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}

	if len(items) != 7 {
		t.Fatalf("expected 7 reviews, got %d", len(items))
	}
	if len(calls) != 3 {
		t.Fatalf("expected 3 page requests, got %d", len(calls))
	}
	if calls[0].appID != "com.example.app" || calls[0].order != playSortRating || calls[0].num != 7 {
		t.Fatalf("unexpected first call: %+v", calls[0])
	}
	if calls[1].num != 4 || calls[2].num != 1 {
		t.Fatalf("expected remaining counts 4 and 1, got %d and %d", calls[1].num, calls[2].num)
	}

	last := items[6]
	if last.ID != "gp:7" || last.Author != "user7" || last.Text != "Review 7 text" || last.Source != "playstore" {
		t.Fatalf("unexpected review: %+v", last)
	}
	if last.URL != "https://play.google.com/store/apps/details?id=com.example.app&reviewId=gp%3A7" {
		t.Fatalf("unexpected url: %s", last.URL)
	}
}

func TestPlayStoreScannerStopsWhenListEnds(t *testing.T) {
	t.Parallel()

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		call := decodeReviewCall(t, r)
		if call.order != playSortNewest {
			t.Errorf("expected newest ordering, got %d", call.order)
		}
		if call.token == "" {
			_, _ = w.Write(reviewsResponse(t, 1, 2, "tok-2"))
			return
		}
		_, _ = w.Write(reviewsResponse(t, 1, 2, ""))
	}))
	defer server.Close()

	sc := NewPlayStoreScanner(server.Client(), server.URL)
	items, err := sc.Scan(context.Background(), scanner.Request{AppID: "com.example.app", Count: 50, Sort: "newest"})
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if requests != 2 {
		t.Fatalf("expected 2 requests, got %d", requests)
	}
	if len(items) != 2 {
		t.Fatalf("expected repeated reviews to be dropped, got %d", len(items))
	}
}

func TestPlayStoreScannerFails(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch decodeReviewCall(t, r).appID {
		case "missing":
			http.NotFound(w, r)
		case "garbled":
			_, _ = w.Write([]byte(")]}'\n\n[[\"di\",1]]"))
		default:
			_, _ = w.Write([]byte(")]}'\n\nnot json"))
		}
	}))
	defer server.Close()

	sc := NewPlayStoreScanner(server.Client(), server.URL)
	for _, app := range []string{"missing", "garbled", "broken"} {
		if _, err := sc.Scan(context.Background(), scanner.Request{AppID: app, Count: 1}); err == nil {
			t.Fatalf("expected error for app %s", app)
		}
	}
	if _, err := sc.Scan(context.Background(), scanner.Request{SourceName: "playstore"}); err == nil {
		t.Fatalf("expected error without app id")
	}
}

func TestParseReviewsPageSkipsEmptyReviews(t *testing.T) {
	t.Parallel()

	payload := `[[["gp:1",["ann"],5,null,"Great"],["gp:2",["bob"],1,null,null]],[null,"next"]]`
	frames, _ := json.Marshal([]any{[]any{"wrb.fr", reviewsRPC, payload}})

	reviews, next, err := parseReviewsPage(append([]byte(")]}'\n"), frames...))
	if err != nil {
		t.Fatalf("parseReviewsPage: %v", err)
	}
	if next != "next" {
		t.Fatalf("expected next token, got %q", next)
	}
	if len(reviews) != 1 || reviews[0].id != "gp:1" || reviews[0].author != "ann" {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}
}
