package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ReviewTriage/internal/config"
	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/scanner"
)

const (
	playStoreBaseURL = "https://play.google.com"
	userAgent        = "ReviewTriage/1.0"

	reviewsRPC      = "UsvDTd"
	reviewsPageSize = 150
	// playStoreMaxPages stops a token chain that never ends.
	playStoreMaxPages = 50
)

// Review list orderings understood by the review-list RPC.
const (
	playSortHelpfulness = 1
	playSortNewest      = 2
	playSortRating      = 3
)

var xssiPrefix = []byte(")]}'")

// PlayStoreScanner pages through an app's reviews via the Play Store review-list RPC.
type PlayStoreScanner struct {
	client  *http.Client
	baseURL string
}

// NewPlayStoreScanner wires an HTTP client; baseURL defaults to play.google.com.
func NewPlayStoreScanner(client *http.Client, baseURL string) *PlayStoreScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = playStoreBaseURL
	}
	return &PlayStoreScanner{client: client, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Name identifies the strategy inside the registry.
func (p *PlayStoreScanner) Name() string {
	return config.ScannerPlayStore
}

// Scan follows continuation tokens until req.Count reviews are collected or the list ends.
func (p *PlayStoreScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.ContentItem, error) {
	appID := req.AppID
	if appID == "" {
		appID = req.Query
	}
	if appID == "" {
		return nil, fmt.Errorf("no app id provided for source %s", req.SourceName)
	}

	endpoint, err := p.endpoint(req.Options["lang"], req.Options["country"])
	if err != nil {
		return nil, err
	}
	order := playSort(req.Sort)

	var (
		items []domain.ContentItem
		seen  = map[string]struct{}{}
		token string
	)
	for page := 0; page < playStoreMaxPages; page++ {
		want := reviewsPageSize
		if req.Count > 0 {
			if len(items) >= req.Count {
				break
			}
			want = min(req.Count-len(items), reviewsPageSize)
		}

		reviews, next, err := p.fetchPage(ctx, endpoint, appID, order, want, token)
		if err != nil {
			return nil, fmt.Errorf("app %s page %d: %w", appID, page+1, err)
		}

		for _, r := range reviews {
			if _, dup := seen[r.id]; dup {
				continue
			}
			seen[r.id] = struct{}{}
			items = append(items, r.item(appID, req.SourceName))
		}

		if next == "" || len(reviews) == 0 {
			break
		}
		token = next
	}

	return scanner.Truncate(items, req.Count), nil
}

type playReview struct {
	id     string
	author string
	text   string
}

func (r playReview) item(appID, sourceName string) domain.ContentItem {
	return domain.ContentItem{
		ID:     r.id,
		URL:    fmt.Sprintf("%s/store/apps/details?id=%s&reviewId=%s", playStoreBaseURL, url.QueryEscape(appID), url.QueryEscape(r.id)),
		Text:   r.text,
		Author: r.author,
		Source: sourceName,
	}
}

func playSort(sort string) int {
	switch sort {
	case "newest":
		return playSortNewest
	case "rating":
		return playSortRating
	default:
		return playSortHelpfulness
	}
}

func (p *PlayStoreScanner) endpoint(lang, country string) (string, error) {
	parsed, err := url.Parse(p.baseURL + "/_/PlayStoreUi/data/batchexecute")
	if err != nil {
		return "", fmt.Errorf("invalid play store url %s: %w", p.baseURL, err)
	}
	if lang == "" {
		lang = "en"
	}
	if country == "" {
		country = "us"
	}

	query := parsed.Query()
	query.Set("hl", lang)
	query.Set("gl", country)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// reviewsRequest encodes the f.req form value asking for num reviews after token.
func reviewsRequest(appID string, order, num int, token string) (string, error) {
	tok := []byte("null")
	if token != "" {
		var err error
		if tok, err = json.Marshal(token); err != nil {
			return "", err
		}
	}
	app, err := json.Marshal(appID)
	if err != nil {
		return "", err
	}

	args := fmt.Sprintf(`[null,null,[2,%d,[%d,null,%s],null,[]],[%s,7]]`, order, num, tok, app)
	envelope, err := json.Marshal([]any{[]any{[]any{reviewsRPC, args, nil, "generic"}}})
	if err != nil {
		return "", err
	}
	return string(envelope), nil
}

func (p *PlayStoreScanner) fetchPage(ctx context.Context, endpoint, appID string, order, num int, token string) ([]playReview, string, error) {
	freq, err := reviewsRequest(appID, order, num, token)
	if err != nil {
		return nil, "", fmt.Errorf("encode request: %w", err)
	}
	form := url.Values{"f.req": {freq}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=UTF-8")
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request reviews: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("play store returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}
	return parseReviewsPage(body)
}

// parseReviewsPage decodes one RPC response into reviews and the next continuation token.
func parseReviewsPage(body []byte) ([]playReview, string, error) {
	body = bytes.TrimSpace(body)
	body = bytes.TrimSpace(bytes.TrimPrefix(body, xssiPrefix))

	var envelope []any
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, "", fmt.Errorf("decode envelope: %w", err)
	}

	payload, found := "", false
	for _, frame := range envelope {
		if str(at(frame, 0)) == "wrb.fr" && str(at(frame, 1)) == reviewsRPC {
			payload, found = str(at(frame, 2)), true
			break
		}
	}
	if !found {
		return nil, "", errors.New("no review payload in response")
	}
	if payload == "" {
		return nil, "", nil
	}

	var data []any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, "", fmt.Errorf("decode reviews: %w", err)
	}

	raw, _ := at(data, 0).([]any)
	reviews := make([]playReview, 0, len(raw))
	for _, entry := range raw {
		r := playReview{
			id:     str(at(entry, 0)),
			author: str(at(entry, 1, 0)),
			text:   strings.TrimSpace(str(at(entry, 4))),
		}
		if r.id == "" || r.text == "" {
			continue
		}
		reviews = append(reviews, r)
	}

	return reviews, str(at(data, 1, 1)), nil
}

// at walks nested JSON arrays, returning nil when any index is missing.
func at(v any, path ...int) any {
	for _, i := range path {
		arr, ok := v.([]any)
		if !ok || i < 0 || i >= len(arr) {
			return nil
		}
		v = arr[i]
	}
	return v
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
