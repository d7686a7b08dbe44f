package domain

// Category is the triage label assigned to an accepted item.
type Category string

const (
	CategoryBug            Category = "bug"
	CategoryFeatureRequest Category = "feature_request"
	CategoryQuestion       Category = "question"
	CategoryFeedback       Category = "feedback"
	CategoryUnrecognized   Category = "unrecognized"
)

// Categories returns the ticketable categories in report order.
func Categories() []Category {
	return []Category{CategoryFeatureRequest, CategoryBug, CategoryFeedback, CategoryQuestion}
}

// Known reports whether c is one of the ticketable categories.
func (c Category) Known() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ClassificationResult is the parsed output of the category classifier.
type ClassificationResult struct {
	Category Category
	Summary  string
	Reason   string
}

// Recognized is false for the unrecognized sentinel.
func (r ClassificationResult) Recognized() bool {
	return r.Category != CategoryUnrecognized && r.Category != ""
}

// Validate downgrades the result to unrecognized unless its category is in valid.
func (r ClassificationResult) Validate(valid map[Category]bool) ClassificationResult {
	if !valid[r.Category] {
		return ClassificationResult{Category: CategoryUnrecognized}
	}
	return r
}

// SpamLabel is the spam filter's verdict label.
type SpamLabel string

const (
	SpamLabelSpam    SpamLabel = "spam"
	SpamLabelNSFW    SpamLabel = "nsfw"
	SpamLabelNotSpam SpamLabel = "notspam"
)

// SpamVerdict is the narrower classification used by the content filter.
type SpamVerdict struct {
	Label  SpamLabel
	Reason string
}

// Enrichment carries category-specific fields attached before emission.
type Enrichment struct {
	Impact         string
	Severity       float64
	SentimentLabel string
	SentimentScore float64
}
