package sources

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/c-m3-codin/gcollect/models"
)

// FileSource reads tasks from a structured file on every call.
//
// The format follows the extension: .yaml/.yml is a sequence of mappings,
// .toml is an array of [[tasks]] tables, anything else is a JSON array:
//
//	[{"payload": "task1 data"}, {"id": "t2", "payload": {"any": "value"}}]
type FileSource struct {
	path string
}

// NewFileSource returns a source for the file at path. The file is not
// touched until GetTasks is called.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Name() string { return "file:" + f.path }

func (f *FileSource) Path() string { return f.path }

func (f *FileSource) GetTasks() ([]models.Task, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrSourceNotFound, f.path, err)
		}
		return nil, fmt.Errorf("reading task file %s: %w", f.path, err)
	}

	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		return parseYAML(f.path, data)
	case ".toml":
		return parseTOML(f.path, data)
	default:
		return parseJSON(f.path, data)
	}
}

func parseJSON(path string, data []byte) ([]models.Task, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s: invalid JSON", ErrMalformedData, path)
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: %s: expected a JSON array of task records", ErrMalformedData, path)
	}

	tasks := make([]models.Task, 0)
	root.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		payload := item.Get("payload")
		if !payload.Exists() {
			return true
		}
		if id := item.Get("id"); id.Exists() && id.Type != gjson.Null && id.String() != "" {
			tasks = append(tasks, models.NewTaskWithID(id.String(), payload.Value()))
		} else {
			tasks = append(tasks, models.NewTask(payload.Value()))
		}
		return true
	})
	return tasks, nil
}

func parseYAML(path string, data []byte) ([]models.Task, error) {
	var items []any
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedData, path, err)
	}
	return recordsToTasks(items), nil
}

func parseTOML(path string, data []byte) ([]models.Task, error) {
	var file models.TaskFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedData, path, err)
	}
	items := make([]any, 0, len(file.Tasks))
	for _, t := range file.Tasks {
		items = append(items, t)
	}
	return recordsToTasks(items), nil
}
