package enrich

import "context"

// Service generates meeting artifacts from raw notes
type Service interface {
	// Summarize returns a markdown summary of the notes. FallbackSummary is
	// returned when the model produces no text.
	Summarize(ctx context.Context, notes string) (string, error)

	// ExtractActionItems returns the tasks found in the notes. An empty
	// payload yields an empty slice; a payload of the wrong shape yields
	// ErrMalformedResponse.
	ExtractActionItems(ctx context.Context, notes string) ([]ExtractedItem, error)

	// SuggestTags returns up to the configured number of topical tags.
	// It never fails on model errors; those degrade to an empty slice.
	SuggestTags(ctx context.Context, notes string) ([]string, error)
}

// ExtractedItem is one task as returned by the model. Task and Assignee
// may be empty; callers substitute placeholders.
type ExtractedItem struct {
	Task     string
	Assignee string
	DueDate  string
}

// FallbackSummary is used when the model returns no summary text
const FallbackSummary = "Could not generate summary."

// DefaultMaxTags is the number of tags requested by default
const DefaultMaxTags = 5

// extractedItemDoc is the structured output of action item extraction
type extractedItemDoc struct {
	Task     string `json:"task"`
	Assignee string `json:"assignee"`
	DueDate  string `json:"dueDate,omitempty"`
}
