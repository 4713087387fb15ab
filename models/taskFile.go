package models

// TaskRecord is the persisted shape of a task in files and queue messages.
// A record without a payload is not a task.
type TaskRecord struct {
	ID      string `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty" cbor:"id,omitempty"`
	Payload any    `json:"payload" yaml:"payload" toml:"payload" cbor:"payload"`
}

// TaskFile is the TOML layout of a task file: an array of [[tasks]] tables.
type TaskFile struct {
	Tasks []map[string]any `toml:"tasks"`
}
