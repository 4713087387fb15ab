package processor

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/c-m3-codin/gcollect/models"
)

// SourceResult is the outcome of one source call during a collection.
type SourceResult struct {
	Index    int
	Name     string
	Tasks    int
	Err      error
	Duration time.Duration
}

// Report is the result of a collection: the aggregated tasks in
// registration order plus one SourceResult per registered source.
type Report struct {
	Tasks   []models.Task
	Sources []SourceResult
}

// Failed returns the results of sources whose call failed.
func (r Report) Failed() []SourceResult {
	var failed []SourceResult
	for _, s := range r.Sources {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

// Err combines every per-source error, or returns nil if all sources
// succeeded. Use multierr.Errors to split it again.
func (r Report) Err() error {
	var err error
	for _, s := range r.Failed() {
		err = multierr.Append(err, fmt.Errorf("source %d (%s): %w", s.Index, s.Name, s.Err))
	}
	return err
}
