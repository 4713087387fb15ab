package processor_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/c-m3-codin/gcollect/models"
	"github.com/c-m3-codin/gcollect/processor"
	"github.com/c-m3-codin/gcollect/sources"
)

func newProcessor(opts ...processor.Option) *processor.Processor {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return processor.New(append([]processor.Option{processor.WithLogger(logger)}, opts...)...)
}

func noSleep(context.Context, time.Duration) error { return nil }

func writeTaskFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write task file: %v", err)
	}
	return path
}

func TestGeneratorScenario(t *testing.T) {
	g := NewWithT(t)
	p := newProcessor()
	g.Expect(p.Register(sources.NewGeneratorSource(5, "t"))).To(BeTrue())

	tasks := p.CollectAll()

	g.Expect(tasks).To(HaveLen(5))
	ids := map[string]bool{}
	for _, task := range tasks {
		g.Expect(task.Payload).To(HavePrefix("t_"))
		ids[task.ID] = true
	}
	g.Expect(ids).To(HaveLen(5))
}

func TestFileScenario(t *testing.T) {
	g := NewWithT(t)
	p := newProcessor()
	p.Register(sources.NewFileSource(writeTaskFile(t, `[{"payload":"a"},{"payload":"b"}]`)))

	tasks := p.CollectAll()

	g.Expect(tasks).To(HaveLen(2))
	g.Expect(tasks[0].Payload).To(Equal("a"))
	g.Expect(tasks[1].Payload).To(Equal("b"))
}

func TestFullPipelineWithAllSources(t *testing.T) {
	g := NewWithT(t)
	p := newProcessor()
	path := writeTaskFile(t, `[{"payload":"file_task_1"},{"payload":"file_task_2"}]`)

	for _, src := range []any{
		sources.NewFileSource(path),
		sources.NewGeneratorSource(3, "gen"),
		sources.NewAPISource("https://test-api.example.com", sources.WithSleep(noSleep)),
	} {
		g.Expect(p.Register(src)).To(BeTrue())
	}
	g.Expect(p.SourceCount()).To(Equal(3))

	tasks := p.CollectAll()
	g.Expect(tasks).To(HaveLen(8))

	var gen, api int
	for _, task := range tasks {
		payload := task.Payload.(string)
		if strings.HasPrefix(payload, "gen_") {
			gen++
		}
		if strings.Contains(payload, "test-api") {
			api++
		}
	}
	g.Expect(tasks[0].Payload).To(Equal("file_task_1"))
	g.Expect(tasks[1].Payload).To(Equal("file_task_2"))
	g.Expect(gen).To(Equal(3))
	g.Expect(api).To(Equal(3))
}

func TestMissingFileDoesNotStopOtherSources(t *testing.T) {
	g := NewWithT(t)
	p := newProcessor(processor.WithConcurrency(3))
	p.Register(sources.NewFileSource(filepath.Join(t.TempDir(), "missing.json")))
	p.Register(sources.NewStaticSource("static", "x", "y"))

	report := p.Collect(context.Background())

	g.Expect(report.Tasks).To(HaveLen(2))
	g.Expect(report.Sources[0].Err).To(MatchError(sources.ErrSourceNotFound))
}

// Sources defined outside gcollect register without any change to it.
type databaseTaskSource struct {
	connectionString string
	mockData         []string
}

func (d databaseTaskSource) GetTasks() ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(d.mockData))
	for _, item := range d.mockData {
		tasks = append(tasks, models.NewTask(item))
	}
	return tasks, nil
}

type redisTaskSource struct{ host string }

func (redisTaskSource) GetTasks() ([]models.Task, error) {
	return []models.Task{models.NewTask("redis_data")}, nil
}

type graphQLSource struct{ endpoint string }

func (graphQLSource) GetTasks() ([]models.Task, error) {
	return []models.Task{models.NewTask("graphql_data")}, nil
}

func TestNewSourcesWithoutChangingExistingCode(t *testing.T) {
	g := NewWithT(t)
	p := newProcessor()

	var _ models.TaskSource = databaseTaskSource{}
	g.Expect(p.Register(databaseTaskSource{
		connectionString: "sqlite://test.db",
		mockData:         []string{"db_item1", "db_item2", "db_item3"},
	})).To(BeTrue())
	g.Expect(p.Register(redisTaskSource{host: "localhost"})).To(BeTrue())
	g.Expect(p.Register(graphQLSource{endpoint: "http://graphql.example.com"})).To(BeTrue())
	g.Expect(p.Register(models.SourceFunc(func() ([]models.Task, error) {
		return []models.Task{models.NewTask("kafka_msg1"), models.NewTask("kafka_msg2")}, nil
	}))).To(BeTrue())

	tasks := p.CollectAll()

	payloads := make([]any, 0, len(tasks))
	for _, task := range tasks {
		payloads = append(payloads, task.Payload)
	}
	g.Expect(payloads).To(Equal([]any{
		"db_item1", "db_item2", "db_item3", "redis_data", "graphql_data", "kafka_msg1", "kafka_msg2",
	}))
}
