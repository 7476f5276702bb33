package model

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/smartminutes/pkg/domain/types"
)

// ActionItemID is a UUID-based identifier, unique within its meeting
type ActionItemID string

// NewActionItemID generates a new UUID v4 ActionItemID
func NewActionItemID() ActionItemID {
	return ActionItemID(uuid.New().String())
}

func (id ActionItemID) String() string {
	return string(id)
}

// ActionItem is one task derived from or added to a meeting.
// It is persisted only as part of its meeting.
type ActionItem struct {
	ID       ActionItemID
	Task     string
	Assignee string
	DueDate  string // free text, YYYY-MM-DD when known; empty means no deadline
	Status   types.ActionItemStatus
}

// NewActionItem creates a pending action item with a fresh ID
func NewActionItem(task, assignee, dueDate string) ActionItem {
	return ActionItem{
		ID:       NewActionItemID(),
		Task:     task,
		Assignee: assignee,
		DueDate:  dueDate,
		Status:   types.ActionItemStatusPending,
	}
}

// Validate checks the action item fields
func (a ActionItem) Validate() error {
	if a.ID == "" {
		return goerr.Wrap(ErrInvalidMeeting, "action item ID is required")
	}
	if !a.Status.IsValid() {
		return goerr.Wrap(ErrInvalidMeeting, "invalid action item status",
			goerr.V(ActionItemIDKey, a.ID), goerr.V("status", a.Status))
	}
	return nil
}

// AppendActionItems returns a new slice with added after items.
// items itself is not modified.
func AppendActionItems(items []ActionItem, added ...ActionItem) []ActionItem {
	result := make([]ActionItem, 0, len(items)+len(added))
	result = append(result, items...)
	return append(result, added...)
}

// ToggleActionItem returns a new slice where the status of the item with
// id is flipped. The second value is false if no item has id.
func ToggleActionItem(items []ActionItem, id ActionItemID) ([]ActionItem, bool) {
	found := false
	result := make([]ActionItem, len(items))
	for i, item := range items {
		if item.ID == id {
			item.Status = item.Status.Toggle()
			found = true
		}
		result[i] = item
	}
	return result, found
}

// RemoveActionItem returns a new slice without the item with id,
// preserving the order of the rest. The second value is false if no item
// has id.
func RemoveActionItem(items []ActionItem, id ActionItemID) ([]ActionItem, bool) {
	found := false
	result := make([]ActionItem, 0, len(items))
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		result = append(result, item)
	}
	return result, found
}
