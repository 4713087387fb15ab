package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/c-m3-codin/gcollect/models"
)

// Publisher delivers one task downstream.
type Publisher interface {
	Publish(task models.Task) error
}

// Failure records a task that could not be published.
type Failure struct {
	TaskID string
	Err    error
}

// Result summarizes a publishing run.
type Result struct {
	Published int
	Failed    []Failure
	// Skipped counts tasks never handed to a worker because ctx was done.
	Skipped int
}

// PublishAll fans tasks out to numWorkers goroutines that publish them
// through pub. Each task is published at most once; delivery order across
// workers is not preserved. A failed task is logged and recorded, the other
// tasks are still published.
func PublishAll(ctx context.Context, pub Publisher, tasks []models.Task, numWorkers int) Result {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	slog.Info("Starting publisher workers", "worker_count", numWorkers, "task_count", len(tasks))

	jobs := make(chan models.Task)
	var (
		mu     sync.Mutex
		result Result
		wg     sync.WaitGroup
	)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			slog.Debug("Starting worker goroutine", "worker_id", workerID)
			for task := range jobs {
				err := pub.Publish(task)

				mu.Lock()
				if err != nil {
					result.Failed = append(result.Failed, Failure{TaskID: task.ID, Err: err})
				} else {
					result.Published++
				}
				mu.Unlock()

				if err != nil {
					slog.Error("Failed to publish task", "worker_id", workerID, "task_id", task.ID, "error", err)
					continue
				}
				slog.Debug("Task published", "worker_id", workerID, "task_id", task.ID)
			}
			slog.Debug("Worker goroutine shutting down", "worker_id", workerID)
		}(i)
	}

	sent := 0
feed:
	for _, task := range tasks {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- task:
			sent++
		}
	}
	close(jobs)
	wg.Wait()

	result.Skipped = len(tasks) - sent
	slog.Info("All publisher workers have shut down.",
		"published", result.Published,
		"failed", len(result.Failed),
		"skipped", result.Skipped)
	return result
}
