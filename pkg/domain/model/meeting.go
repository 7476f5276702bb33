package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// DateLayout is the calendar date format of Meeting.Date and ActionItem.DueDate
const DateLayout = "2006-01-02"

// MeetingID is a UUID-based identifier for Meeting
type MeetingID string

// NewMeetingID generates a new UUID v4 MeetingID
func NewMeetingID() MeetingID {
	return MeetingID(uuid.New().String())
}

func (id MeetingID) String() string {
	return string(id)
}

// Meeting is one saved or in-progress meeting record
type Meeting struct {
	ID           MeetingID
	Title        string
	Date         string   // YYYY-MM-DD, may be empty
	Participants []string // display names, order preserved, duplicates allowed
	RawNotes     string
	Summary      string // replaced wholesale by each summarize call
	Tags         []string
	ActionItems  []ActionItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewMeeting allocates an empty meeting with a fresh ID dated today
func NewMeeting(now time.Time) *Meeting {
	return &Meeting{
		ID:           NewMeetingID(),
		Date:         Today(now),
		Participants: []string{},
		Tags:         []string{},
		ActionItems:  []ActionItem{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Today formats now as a calendar date in its own location
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// Clone returns a deep copy. Slices of the copy never alias the original.
func (m *Meeting) Clone() *Meeting {
	if m == nil {
		return nil
	}

	cloned := *m
	cloned.Participants = append(make([]string, 0, len(m.Participants)), m.Participants...)
	cloned.Tags = append(make([]string, 0, len(m.Tags)), m.Tags...)
	cloned.ActionItems = append(make([]ActionItem, 0, len(m.ActionItems)), m.ActionItems...)
	return &cloned
}

// Validate checks structural invariants of the meeting
func (m *Meeting) Validate() error {
	if m.ID == "" {
		return goerr.Wrap(ErrInvalidMeeting, "meeting ID is required")
	}

	if m.Date != "" {
		if _, err := time.Parse(DateLayout, m.Date); err != nil {
			return goerr.Wrap(ErrInvalidMeeting, "invalid meeting date",
				goerr.V(MeetingIDKey, m.ID), goerr.V(DateKey, m.Date))
		}
	}

	seen := make(map[ActionItemID]bool, len(m.ActionItems))
	for _, item := range m.ActionItems {
		if err := item.Validate(); err != nil {
			return goerr.Wrap(err, "invalid action item", goerr.V(MeetingIDKey, m.ID))
		}
		if seen[item.ID] {
			return goerr.Wrap(ErrInvalidMeeting, "duplicate action item ID",
				goerr.V(MeetingIDKey, m.ID), goerr.V(ActionItemIDKey, item.ID))
		}
		seen[item.ID] = true
	}

	return nil
}
