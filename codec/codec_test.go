package codec

import (
	"testing"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/c-m3-codin/gcollect/models"
)

func TestJSONCodec_TaskRecord(t *testing.T) {
	c := JSON()
	b, err := c.Marshal(models.NewTaskWithID("id1", "payload"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var rec models.TaskRecord
	if err := c.Unmarshal(b, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.ID != "id1" || rec.Payload != "payload" {
		t.Fatalf("roundtrip mismatch: %#v", rec)
	}
}

func TestCBORCodec_NestedPayload(t *testing.T) {
	c, err := CBOR()
	if err != nil {
		t.Fatalf("new cbor: %v", err)
	}
	b, err := c.Marshal(models.NewTaskWithID("id2", map[string]any{"n": "x"}))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var rec models.TaskRecord
	if err := c.Unmarshal(b, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	payload, ok := rec.Payload.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any payload, got %T", rec.Payload)
	}
	if rec.ID != "id2" || payload["n"] != "x" {
		t.Fatalf("roundtrip mismatch: %#v", rec)
	}
}

func TestProtoCodec_Task(t *testing.T) {
	c := Proto()
	b, err := c.Marshal(models.NewTaskWithID("id3", "v"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var rec models.TaskRecord
	if err := c.Unmarshal(b, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.ID != "id3" || rec.Payload != "v" {
		t.Fatalf("roundtrip mismatch: %#v", rec)
	}
}

func TestProtoCodec_TaskList(t *testing.T) {
	c := Proto()
	tasks := []models.Task{models.NewTaskWithID("a", "1"), models.NewTaskWithID("b", "2")}
	b, err := c.Marshal(tasks)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var list structpb.ListValue
	if err := c.Unmarshal(b, &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list.Values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(list.Values))
	}
	if id := list.Values[1].GetStructValue().Fields["id"].GetStringValue(); id != "b" {
		t.Errorf("expected second id 'b', got '%s'", id)
	}
}

func TestProtoCodec_UnsupportedPayload(t *testing.T) {
	_, err := Proto().Marshal(models.NewTaskWithID("x", struct{ A int }{1}))
	if err == nil {
		t.Fatal("expected error for non JSON-like payload")
	}
}

func TestRegistry_Aliases(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("default registry: %v", err)
	}
	for alias, want := range map[string]string{
		"json":                 "application/json",
		"CBOR":                 "application/cbor",
		"proto":                "application/protobuf",
		"application/protobuf": "application/protobuf",
	} {
		c := r.Get(alias)
		if c == nil {
			t.Errorf("expected codec for '%s'", alias)
			continue
		}
		if c.ContentType() != want {
			t.Errorf("alias '%s': expected %s, got %s", alias, want, c.ContentType())
		}
	}

	if _, err := r.Lookup("xml"); err == nil {
		t.Error("expected error for unknown codec")
	}
	if NewRegistry().Get("cbor") != nil {
		t.Error("expected CBOR to be absent from NewRegistry")
	}
}
