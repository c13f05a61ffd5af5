package todo

import "time"

// Todo is a single task.
type Todo struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Input holds the replaceable fields of a Todo.
// Create and Update both take the full set; there is no partial update.
type Input struct {
	Title       string
	Description string
	Completed   bool
}

// EventType names a change to the todo table.
type EventType string

// Change events emitted by the Service.
const (
	EventCreated EventType = "todo.created"
	EventUpdated EventType = "todo.updated"
	EventDeleted EventType = "todo.deleted"
)

// Event describes a committed change. For deletions Todo holds the values
// the row had before it was removed.
type Event struct {
	Type      EventType `json:"type"`
	Todo      Todo      `json:"todo"`
	Timestamp time.Time `json:"timestamp"`
}
