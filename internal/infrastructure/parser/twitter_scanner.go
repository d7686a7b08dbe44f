package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ReviewTriage/internal/config"
	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/scanner"
)

const (
	twitterBaseURL = "https://twitter154.p.rapidapi.com"
	twitterHost    = "twitter154.p.rapidapi.com"
	tweetURLPrefix = "https://twitter.com/i/status/"
)

// TwitterScanner fetches hashtag tweets through the RapidAPI Twitter proxy.
type TwitterScanner struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewTwitterScanner wires an HTTP client and RapidAPI key; baseURL defaults to the twitter154 host.
func NewTwitterScanner(client *http.Client, baseURL, apiKey string) *TwitterScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = twitterBaseURL
	}
	return &TwitterScanner{client: client, baseURL: strings.TrimSuffix(baseURL, "/"), apiKey: apiKey}
}

// Name identifies the strategy inside the registry.
func (t *TwitterScanner) Name() string {
	return config.ScannerTwitter
}

type hashtagResponse struct {
	Results []struct {
		TweetID  string   `json:"tweet_id"`
		Text     string   `json:"text"`
		MediaURL []string `json:"media_url"`
		User     struct {
			Username string `json:"username"`
		} `json:"user"`
	} `json:"results"`
}

// Scan returns up to req.Count tweets carrying the hashtag in req.Query.
func (t *TwitterScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.ContentItem, error) {
	hashtag := strings.TrimPrefix(strings.TrimSpace(req.Query), "#")
	if hashtag == "" {
		return nil, fmt.Errorf("no hashtag provided for source %s", req.SourceName)
	}
	if t.apiKey == "" {
		return nil, fmt.Errorf("rapidapi key is not configured")
	}

	section := req.Sort
	if section == "" {
		section = "top"
	}

	query := url.Values{}
	query.Set("hashtag", "#"+hashtag)
	query.Set("section", section)
	if req.Count > 0 {
		query.Set("limit", strconv.Itoa(req.Count))
	}
	endpoint := t.baseURL + "/hashtag/hashtag?" + query.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("X-RapidAPI-Key", t.apiKey)
	httpReq.Header.Set("X-RapidAPI-Host", twitterHost)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request tweets: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("twitter proxy returned %s", resp.Status)
	}

	var payload hashtagResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tweets: %w", err)
	}

	items := make([]domain.ContentItem, 0, len(payload.Results))
	for _, tweet := range payload.Results {
		if tweet.TweetID == "" || strings.TrimSpace(tweet.Text) == "" {
			continue
		}
		items = append(items, domain.ContentItem{
			ID:        tweet.TweetID,
			URL:       tweetURLPrefix + tweet.TweetID,
			Text:      tweet.Text,
			Title:     fmt.Sprintf("Tweet from %s using the hashtag %s", tweet.User.Username, hashtag),
			Author:    tweet.User.Username,
			Source:    req.SourceName,
			MediaURLs: tweet.MediaURL,
		})
	}
	return scanner.Truncate(items, req.Count), nil
}
