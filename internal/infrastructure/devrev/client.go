package devrev

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ReviewTriage/internal/config"
	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/ports"
)

// Client files tickets as DevRev works and posts progress to the snap-in timeline.
type Client struct {
	endpoint string
	token    string
	snapInID string
	http     *http.Client
	now      func() time.Time
}

var (
	_ ports.Ticketing = (*Client)(nil)
	_ ports.Notifier  = (*Client)(nil)
)

// NewClient builds a DevRev client from configuration.
func NewClient(cfg config.DevRevConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		token:    cfg.Token,
		snapInID: cfg.SnapInID,
		http:     &http.Client{Timeout: timeout},
		now:      time.Now,
	}
}

type tagRef struct {
	ID string `json:"id"`
}

type createWorkRequest struct {
	Type          string   `json:"type"`
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	Tags          []tagRef `json:"tags,omitempty"`
	OwnedBy       []string `json:"owned_by,omitempty"`
	AppliesToPart string   `json:"applies_to_part,omitempty"`
}

// CreateTicket submits the draft through works.create.
func (c *Client) CreateTicket(ctx context.Context, draft domain.TicketDraft) (domain.TicketRef, error) {
	workType := draft.WorkType
	if workType == "" {
		workType = "ticket"
	}

	payload := createWorkRequest{
		Type:          workType,
		Title:         draft.Title,
		Body:          draft.Body,
		AppliesToPart: draft.Part,
	}
	for _, tag := range draft.Tags {
		if tag != "" {
			payload.Tags = append(payload.Tags, tagRef{ID: tag})
		}
	}
	if draft.Owner != "" {
		payload.OwnedBy = []string{draft.Owner}
	}

	var resp struct {
		Work struct {
			ID        string `json:"id"`
			DisplayID string `json:"display_id"`
		} `json:"work"`
	}
	if err := c.post(ctx, "/works.create", payload, &resp); err != nil {
		return domain.TicketRef{}, fmt.Errorf("works.create: %w", err)
	}
	if resp.Work.ID == "" {
		return domain.TicketRef{}, fmt.Errorf("works.create: response has no work id")
	}

	return domain.TicketRef{ID: resp.Work.ID, DisplayID: resp.Work.DisplayID}, nil
}

type timelineEntry struct {
	ID         string `json:"id,omitempty"`
	Object     string `json:"object,omitempty"`
	Type       string `json:"type"`
	Body       string `json:"body"`
	BodyType   string `json:"body_type,omitempty"`
	Visibility string `json:"visibility,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
}

// Post adds an internal comment to the snap-in timeline, or updates the entry named by ReplaceID.
func (c *Client) Post(ctx context.Context, msg domain.Message) (string, error) {
	if msg.ReplaceID != "" {
		entry := timelineEntry{ID: msg.ReplaceID, Type: "timeline_comment", Body: msg.Body}
		if err := c.post(ctx, "/timeline-entries.update", entry, nil); err != nil {
			return "", fmt.Errorf("timeline-entries.update: %w", err)
		}
		return msg.ReplaceID, nil
	}

	if c.snapInID == "" {
		return "", fmt.Errorf("snap-in id is not configured")
	}

	entry := timelineEntry{
		Object:     c.snapInID,
		Type:       "timeline_comment",
		Body:       msg.Body,
		BodyType:   "text",
		Visibility: "internal",
	}
	if msg.ExpiresIn > 0 {
		entry.ExpiresAt = c.now().Add(msg.ExpiresIn).UTC().Format(time.RFC3339)
	}

	var resp struct {
		TimelineEntry struct {
			ID string `json:"id"`
		} `json:"timeline_entry"`
	}
	if err := c.post(ctx, "/timeline-entries.create", entry, &resp); err != nil {
		return "", fmt.Errorf("timeline-entries.create: %w", err)
	}

	return resp.TimelineEntry.ID, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	if c.endpoint == "" || c.token == "" {
		return fmt.Errorf("devrev client misconfigured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("devrev error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
