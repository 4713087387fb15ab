package sources

import "github.com/c-m3-codin/gcollect/models"

// StaticSource serves a fixed list of payloads, one fresh task each per call.
type StaticSource struct {
	name     string
	payloads []any
}

func NewStaticSource(name string, payloads ...any) *StaticSource {
	return &StaticSource{name: name, payloads: payloads}
}

func (s *StaticSource) Name() string { return s.name }

func (s *StaticSource) GetTasks() ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(s.payloads))
	for _, p := range s.payloads {
		tasks = append(tasks, models.NewTask(p))
	}
	return tasks, nil
}
