package model

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidMeeting = goerr.New("invalid meeting")
)

// Context keys for error values
const (
	MeetingIDKey    = "meeting_id"
	ActionItemIDKey = "action_item_id"
	DateKey         = "date"
)
