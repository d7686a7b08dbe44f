package domain

import "fmt"

// ContentItem is one unit of user-generated content fetched from a source.
type ContentItem struct {
	ID        string
	URL       string
	Text      string
	Title     string
	Author    string
	Source    string
	MediaURLs []string
}

// DisplayTitle returns the item title or a derived one naming the source.
func (c ContentItem) DisplayTitle(label string) string {
	if c.Title != "" {
		return c.Title
	}
	return fmt.Sprintf("Ticket created from %s %s", label, c.URL)
}

// ComposedText prefixes the raw text with its provenance line.
func (c ContentItem) ComposedText(label string) string {
	return fmt.Sprintf("Ticket created from %s %s\n\n%s", label, c.URL, c.Text)
}

// HasMedia reports whether the item links any images.
func (c ContentItem) HasMedia() bool {
	return len(c.MediaURLs) > 0
}
