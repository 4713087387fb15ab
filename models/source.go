package models

import "context"

// TaskSource is the contract every task provider satisfies.
// Any type with a matching GetTasks method conforms; no embedding or
// declaration is required.
type TaskSource interface {
	// GetTasks returns the tasks currently available from the source.
	// An empty, non-nil slice means nothing is available. A nil slice with a
	// nil error is treated as a malformed result by the processor.
	GetTasks() ([]Task, error)
}

// ContextTaskSource is implemented by sources that can abort their own I/O
// when the collection context is cancelled or a per-source deadline expires.
type ContextTaskSource interface {
	TaskSource
	GetTasksContext(ctx context.Context) ([]Task, error)
}

// NamedSource lets a source report a human readable name for logs, metrics
// and collection reports.
type NamedSource interface {
	Name() string
}

// SourceFunc adapts an ordinary function to TaskSource.
type SourceFunc func() ([]Task, error)

// GetTasks calls f.
func (f SourceFunc) GetTasks() ([]Task, error) { return f() }
