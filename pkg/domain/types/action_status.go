package types

import "github.com/m-mizutani/goerr/v2"

// ActionItemStatus represents the completion state of an action item
type ActionItemStatus string

const (
	ActionItemStatusPending   ActionItemStatus = "pending"
	ActionItemStatusCompleted ActionItemStatus = "completed"
)

// AllActionItemStatuses returns all valid action item statuses
func AllActionItemStatuses() []ActionItemStatus {
	return []ActionItemStatus{
		ActionItemStatusPending,
		ActionItemStatusCompleted,
	}
}

// IsValid checks if the action item status is valid
func (s ActionItemStatus) IsValid() bool {
	switch s {
	case ActionItemStatusPending,
		ActionItemStatusCompleted:
		return true
	default:
		return false
	}
}

// Normalize returns the status, treating empty as pending for records
// written before the status field existed.
func (s ActionItemStatus) Normalize() ActionItemStatus {
	if s == "" {
		return ActionItemStatusPending
	}
	return s
}

// Toggle flips pending and completed
func (s ActionItemStatus) Toggle() ActionItemStatus {
	if s == ActionItemStatusCompleted {
		return ActionItemStatusPending
	}
	return ActionItemStatusCompleted
}

// String returns the string representation of the action item status
func (s ActionItemStatus) String() string {
	return string(s)
}

// ParseActionItemStatus parses a string into an ActionItemStatus
func ParseActionItemStatus(s string) (ActionItemStatus, error) {
	status := ActionItemStatus(s)
	if !status.IsValid() {
		return "", goerr.New("invalid action item status", goerr.V("status", s))
	}
	return status, nil
}
