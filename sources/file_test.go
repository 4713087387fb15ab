package sources

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp task file: %v", err)
	}
	return path
}

func TestFileSource_ValidJSON(t *testing.T) {
	g := NewWithT(t)
	path := writeFile(t, "tasks.json", `[
		{"payload": "Task 1", "id": "id1"},
		{"payload": "Task 2"},
		{"payload": "Task 3", "id": "id3"}
	]`)

	tasks, err := NewFileSource(path).GetTasks()

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tasks).To(HaveLen(3))
	g.Expect(tasks[0].ID).To(Equal("id1"))
	g.Expect(tasks[0].Payload).To(Equal("Task 1"))
	g.Expect(tasks[1].Payload).To(Equal("Task 2"))
	g.Expect(tasks[1].ID).NotTo(BeEmpty())
	g.Expect(tasks[2].ID).To(Equal("id3"))
}

func TestFileSource_SkipsRecordsWithoutPayload(t *testing.T) {
	g := NewWithT(t)
	path := writeFile(t, "tasks.json", `[
		{"payload": "a"},
		{"id": "no-payload"},
		"not an object",
		42,
		{"payload": {"nested": [1, 2]}},
		{"payload": null}
	]`)

	tasks, err := NewFileSource(path).GetTasks()

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tasks).To(HaveLen(3))
	g.Expect(tasks[0].Payload).To(Equal("a"))
	g.Expect(tasks[1].Payload).To(Equal(map[string]any{"nested": []any{float64(1), float64(2)}}))
	g.Expect(tasks[2].Payload).To(BeNil())
}

func TestFileSource_FileNotFound(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "non_existent_file.json")).GetTasks()

	if !errors.Is(err, ErrSourceNotFound) {
		t.Errorf("Expected ErrSourceNotFound, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist in chain, got %v", err)
	}
}

func TestFileSource_InvalidJSON(t *testing.T) {
	path := writeFile(t, "broken.json", "invalid json {")

	_, err := NewFileSource(path).GetTasks()
	if !errors.Is(err, ErrMalformedData) {
		t.Errorf("Expected ErrMalformedData, got %v", err)
	}
}

func TestFileSource_JSONObjectIsMalformed(t *testing.T) {
	path := writeFile(t, "object.json", `{"payload": "a"}`)

	_, err := NewFileSource(path).GetTasks()
	if !errors.Is(err, ErrMalformedData) {
		t.Errorf("Expected ErrMalformedData for a top-level object, got %v", err)
	}
}

func TestFileSource_EmptyArray(t *testing.T) {
	path := writeFile(t, "empty.json", "[]")

	tasks, err := NewFileSource(path).GetTasks()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("Expected empty, non-nil task list, got %#v", tasks)
	}
}

func TestFileSource_YAML(t *testing.T) {
	g := NewWithT(t)
	path := writeFile(t, "tasks.yaml", `
- payload: a
  id: y1
- payload:
    kind: resize
    width: 100
- id: skipped
`)

	tasks, err := NewFileSource(path).GetTasks()

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tasks).To(HaveLen(2))
	g.Expect(tasks[0].ID).To(Equal("y1"))
	g.Expect(tasks[1].Payload).To(Equal(map[string]any{"kind": "resize", "width": 100}))
}

func TestFileSource_MalformedYAML(t *testing.T) {
	path := writeFile(t, "tasks.yml", "payload: [unclosed")

	_, err := NewFileSource(path).GetTasks()
	if !errors.Is(err, ErrMalformedData) {
		t.Errorf("Expected ErrMalformedData, got %v", err)
	}
}

func TestFileSource_TOML(t *testing.T) {
	g := NewWithT(t)
	path := writeFile(t, "tasks.toml", `
[[tasks]]
id = "t1"
payload = "first"

[[tasks]]
payload = "second"

[[tasks]]
id = "no-payload"
`)

	tasks, err := NewFileSource(path).GetTasks()

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(tasks).To(HaveLen(2))
	g.Expect(tasks[0].ID).To(Equal("t1"))
	g.Expect(tasks[0].Payload).To(Equal("first"))
	g.Expect(tasks[1].Payload).To(Equal("second"))
}

func TestFileSource_MalformedTOML(t *testing.T) {
	path := writeFile(t, "tasks.toml", "[[tasks]\npayload = ")

	_, err := NewFileSource(path).GetTasks()
	if !errors.Is(err, ErrMalformedData) {
		t.Errorf("Expected ErrMalformedData, got %v", err)
	}
}

func TestFileSource_ReadsFreshOnEveryCall(t *testing.T) {
	path := writeFile(t, "tasks.json", `[{"payload": "v1"}]`)
	src := NewFileSource(path)

	first, _ := src.GetTasks()
	if err := os.WriteFile(path, []byte(`[{"payload": "v2"}, {"payload": "v3"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	second, _ := src.GetTasks()

	if len(first) != 1 || len(second) != 2 {
		t.Errorf("Expected 1 then 2 tasks, got %d then %d", len(first), len(second))
	}
	if src.Name() != "file:"+path {
		t.Errorf("Unexpected name '%s'", src.Name())
	}
}
