package processor

import "errors"

var (
	// ErrNilTasks is recorded when a source returns a nil slice with a nil
	// error. Sources report "nothing available" with an empty slice.
	ErrNilTasks = errors.New("source returned a nil task list")

	// ErrSourcePanic wraps a value recovered from a panicking source.
	ErrSourcePanic = errors.New("source panicked")

	// ErrSourceTimeout is recorded when a source exceeds the per-source
	// timeout. It is joined with context.DeadlineExceeded.
	ErrSourceTimeout = errors.New("source timed out")
)
