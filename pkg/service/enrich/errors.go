package enrich

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrNotConfigured is returned when no LLM client is available
	ErrNotConfigured = goerr.New("LLM client is not configured")

	// ErrEmptyNotes is returned before any request when the notes are blank
	ErrEmptyNotes = goerr.New("meeting notes are empty")

	// ErrMalformedResponse is returned when a structured response does not
	// match the requested shape
	ErrMalformedResponse = goerr.New("malformed LLM response")
)

const (
	ResponseKey = "response"
)
