package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ReviewTriage/internal/config"
	"ReviewTriage/internal/ports"
)

// client is the shared JSON-over-HTTP plumbing of the scoring services.
type client struct {
	http    *http.Client
	headers map[string]string
}

func newClient(headers map[string]string) client {
	return client{http: &http.Client{Timeout: 15 * time.Second}, headers: headers}
}

func (c client) do(ctx context.Context, method, endpoint string, payload any, v any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, val := range c.headers {
		if val != "" {
			req.Header.Set(k, val)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// SentimentClient scores text polarity with the Twinword sentiment API on RapidAPI.
type SentimentClient struct {
	client
	endpoint string
}

var _ ports.SentimentAnalyzer = (*SentimentClient)(nil)

// NewSentimentClient creates a reusable sentiment client.
func NewSentimentClient(cfg config.SentimentConfig, rapidAPIKey string) *SentimentClient {
	return &SentimentClient{
		client: newClient(map[string]string{
			"X-RapidAPI-Key":  rapidAPIKey,
			"X-RapidAPI-Host": cfg.Host,
		}),
		endpoint: cfg.Endpoint,
	}
}

// Analyze returns the sentiment label and a score in [-1, 1].
func (c *SentimentClient) Analyze(ctx context.Context, text string) (ports.Sentiment, error) {
	if c.endpoint == "" {
		return ports.Sentiment{}, fmt.Errorf("sentiment endpoint is not configured")
	}

	var resp struct {
		Type  string  `json:"type"`
		Score float64 `json:"score"`
	}
	endpoint := c.endpoint + "?text=" + url.QueryEscape(text)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return ports.Sentiment{}, fmt.Errorf("sentiment: %w", err)
	}

	return ports.Sentiment{Label: strings.ToLower(resp.Type), Score: resp.Score}, nil
}

// DetectorClient estimates how likely text is machine-generated via GPTZero.
type DetectorClient struct {
	client
	endpoint string
	version  string
}

var _ ports.AIDetector = (*DetectorClient)(nil)

// NewDetectorClient creates a reusable GPTZero client.
func NewDetectorClient(cfg config.DetectorConfig) *DetectorClient {
	return &DetectorClient{
		client:   newClient(map[string]string{"x-api-key": cfg.APIKey}),
		endpoint: cfg.Endpoint,
		version:  cfg.Version,
	}
}

// ProbabilityAI returns the document-level probability that text was AI-written.
func (c *DetectorClient) ProbabilityAI(ctx context.Context, text string) (float64, error) {
	if c.endpoint == "" {
		return 0, fmt.Errorf("detector endpoint is not configured")
	}

	payload := map[string]any{"document": text}
	if c.version != "" {
		payload["version"] = c.version
	}

	var resp struct {
		Documents []struct {
			ClassProbabilities struct {
				AI float64 `json:"ai"`
			} `json:"class_probabilities"`
		} `json:"documents"`
	}
	if err := c.do(ctx, http.MethodPost, c.endpoint, payload, &resp); err != nil {
		return 0, fmt.Errorf("ai detector: %w", err)
	}
	if len(resp.Documents) == 0 {
		return 0, fmt.Errorf("ai detector returned no documents")
	}

	return resp.Documents[0].ClassProbabilities.AI, nil
}
