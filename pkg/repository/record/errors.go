package record

import "github.com/m-mizutani/goerr/v2"

var (
	ErrNotFound           = goerr.New("meeting not found")
	ErrUnsupportedVersion = goerr.New("unsupported storage format version")
)

// Context keys for error values
const (
	KeyKey       = "key"
	VersionKey   = "version"
	MeetingIDKey = "meeting_id"
)
