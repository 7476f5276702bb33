package interfaces

import (
	"context"

	"github.com/secmon-lab/smartminutes/pkg/domain/model"
)

// MeetingRepository persists the full meeting collection
type MeetingRepository interface {
	// List returns all meetings, most recently created first. Unreadable
	// storage yields an empty collection, never an error.
	List(ctx context.Context) ([]*model.Meeting, error)

	// Get returns the meeting with id or an error wrapping ErrNotFound
	Get(ctx context.Context, id model.MeetingID) (*model.Meeting, error)

	// Save stamps UpdatedAt, then replaces the meeting with the same ID in
	// place or inserts it at the front of the collection. It returns the
	// stored copy.
	Save(ctx context.Context, meeting *model.Meeting) (*model.Meeting, error)

	// Delete removes the meeting with id. Absent ids are not an error.
	Delete(ctx context.Context, id model.MeetingID) error
}
