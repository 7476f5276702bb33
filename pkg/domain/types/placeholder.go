package types

// Placeholder texts substituted when an action item field is missing
const (
	// PlaceholderTask is used when extracted action items have no task text
	PlaceholderTask = "Task"
	// PlaceholderAssignee marks an action item whose owner is unknown. The
	// same marker is given to the LLM as the value for unknown assignees.
	PlaceholderAssignee = "Unassigned"
	// PlaceholderNewTask is the task text of a manually added action item
	PlaceholderNewTask = "New task"
)
