package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// State errors
	ErrNoActiveMeeting      = errors.New("no meeting is being edited")
	ErrBusy                 = errors.New("another AI request is in progress")
	ErrConfirmationRequired = errors.New("delete requires confirmation")

	// Not found errors
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrActionItemNotFound = errors.New("action item not found")

	// Enrichment errors
	ErrEnrichmentFailed = errors.New("AI enrichment failed")
)

// Context keys for error values
const (
	MeetingIDKey    = "meeting_id"
	ActionItemIDKey = "action_item_id"
)
