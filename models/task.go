package models

// Task is a single unit of work collected from a source.
// Payload is opaque: nothing in gcollect inspects or interprets it.
type Task struct {
	ID      string `json:"id"`
	Payload any    `json:"payload"`
}

// NewTask creates a task with a freshly generated unique ID.
// The payload is accepted as-is, without validation.
func NewTask(payload any) Task {
	return Task{ID: nextID(), Payload: payload}
}

// NewTaskWithID creates a task with an externally supplied ID, for example one
// loaded from a file. No uniqueness check is performed.
func NewTaskWithID(id string, payload any) Task {
	return Task{ID: id, Payload: payload}
}
