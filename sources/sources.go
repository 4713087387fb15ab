// Package sources provides the built-in task sources: files, a synthetic
// generator, an API stub, a Kafka topic and an in-memory list.
package sources

import (
	"errors"

	"github.com/c-m3-codin/gcollect/models"
)

var (
	// ErrSourceNotFound is returned when the backing resource of a source
	// does not exist.
	ErrSourceNotFound = errors.New("task source not found")

	// ErrMalformedData is returned when source data cannot be parsed.
	ErrMalformedData = errors.New("malformed task data")
)

// Compile-time interface checks.
var (
	_ models.TaskSource        = (*FileSource)(nil)
	_ models.TaskSource        = (*GeneratorSource)(nil)
	_ models.ContextTaskSource = (*APISource)(nil)
	_ models.ContextTaskSource = (*KafkaSource)(nil)
	_ models.TaskSource        = (*StaticSource)(nil)
	_ models.NamedSource       = (*FileSource)(nil)
)

// recordsToTasks turns decoded records into tasks. Items that are not
// mappings or have no "payload" key are skipped. A non-empty "id" is kept,
// otherwise a fresh one is generated.
func recordsToTasks(items []any) []models.Task {
	tasks := make([]models.Task, 0, len(items))
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			continue
		}
		payload, ok := record["payload"]
		if !ok {
			continue
		}
		if id, ok := record["id"].(string); ok && id != "" {
			tasks = append(tasks, models.NewTaskWithID(id, payload))
			continue
		}
		tasks = append(tasks, models.NewTask(payload))
	}
	return tasks
}
