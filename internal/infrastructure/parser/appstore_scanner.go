package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"ReviewTriage/internal/config"
	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/scanner"
)

const (
	appStoreBaseURL = "https://itunes.apple.com"
	// appStoreMaxPages is the deepest page the customer-review feed serves.
	appStoreMaxPages = 10
)

// AppStoreScanner reads the customer-review Atom feed of an App Store app.
type AppStoreScanner struct {
	parser  *gofeed.Parser
	baseURL string
}

// NewAppStoreScanner wires a feed parser; baseURL defaults to itunes.apple.com.
func NewAppStoreScanner(client *http.Client, baseURL string) *AppStoreScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if baseURL == "" {
		baseURL = appStoreBaseURL
	}

	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &AppStoreScanner{parser: parser, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Name identifies the strategy inside the registry.
func (a *AppStoreScanner) Name() string {
	return config.ScannerAppStore
}

// Scan pages through the most recent reviews of req.AppID, newest first,
// until req.Count reviews are collected or a page brings nothing new.
func (a *AppStoreScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.ContentItem, error) {
	appID := req.AppID
	if appID == "" {
		appID = req.Query
	}
	if appID == "" {
		return nil, fmt.Errorf("no app id provided for source %s", req.SourceName)
	}

	country := req.Options["country"]
	if country == "" {
		country = "us"
	}

	var (
		items []domain.ContentItem
		seen  = map[string]struct{}{}
	)
	for page := 1; page <= appStoreMaxPages; page++ {
		if req.Count > 0 && len(items) >= req.Count {
			break
		}

		feed, err := a.parser.ParseURLWithContext(a.feedURL(appID, country, page), ctx)
		if err != nil {
			// Pages past the last one answer with an error status.
			if page > 1 && ctx.Err() == nil {
				break
			}
			return nil, fmt.Errorf("fetching reviews for %s page %d: %w", appID, page, err)
		}

		added := 0
		for _, entry := range feed.Items {
			item, ok := reviewFromEntry(entry, req.SourceName)
			if !ok {
				continue
			}
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			if item.URL == "" {
				item.URL = reviewLink(country, appID, item.ID)
			}
			items = append(items, item)
			added++
		}
		if added == 0 {
			break
		}
	}
	return scanner.Truncate(items, req.Count), nil
}

func (a *AppStoreScanner) feedURL(appID, country string, page int) string {
	return fmt.Sprintf("%s/%s/rss/customerreviews/page=%d/id=%s/sortby=mostrecent/xml",
		a.baseURL, url.PathEscape(country), page, url.PathEscape(appID))
}

// reviewLink points at the app's review list; the feed only carries "related" links.
func reviewLink(country, appID, reviewID string) string {
	return fmt.Sprintf("https://apps.apple.com/%s/app/id%s?see-all=reviews#%s",
		url.PathEscape(country), url.PathEscape(appID), url.PathEscape(reviewID))
}

// reviewFromEntry skips the app entry some feeds lead with; it carries no rating.
func reviewFromEntry(entry *gofeed.Item, sourceName string) (domain.ContentItem, bool) {
	if entry == nil || rating(entry) == "" {
		return domain.ContentItem{}, false
	}

	text := entry.Content
	if text == "" {
		text = entry.Description
	}
	text = plainText(text)
	if text == "" {
		return domain.ContentItem{}, false
	}

	author := ""
	if len(entry.Authors) > 0 && entry.Authors[0] != nil {
		author = entry.Authors[0].Name
	}

	id := entry.GUID
	if id == "" {
		id = entry.Link
	}

	return domain.ContentItem{
		ID:     id,
		URL:    entry.Link,
		Text:   text,
		Title:  strings.TrimSpace(entry.Title),
		Author: author,
		Source: sourceName,
	}, true
}

func rating(entry *gofeed.Item) string {
	ext, ok := entry.Extensions["im"]
	if !ok {
		return ""
	}
	values := ext["rating"]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}

func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
