package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/c-m3-codin/gcollect/models"
)

type protoCodec struct{}

// Proto returns a Protobuf codec. Tasks are carried as google.protobuf.Struct
// values ({"id": ..., "payload": ...}), so payloads must be JSON-like:
// nil, bool, numbers, strings, []any or map[string]any.
func Proto() Codec { return protoCodec{} }

func (protoCodec) ContentType() string { return "application/protobuf" }

func (protoCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case proto.Message:
		return proto.Marshal(m)
	case models.Task:
		s, err := taskStruct(m.ID, m.Payload)
		if err != nil {
			return nil, err
		}
		return proto.Marshal(s)
	case models.TaskRecord:
		s, err := taskStruct(m.ID, m.Payload)
		if err != nil {
			return nil, err
		}
		return proto.Marshal(s)
	case []models.Task:
		list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(m))}
		for _, t := range m {
			s, err := taskStruct(t.ID, t.Payload)
			if err != nil {
				return nil, err
			}
			list.Values = append(list.Values, structpb.NewStructValue(s))
		}
		return proto.Marshal(list)
	default:
		return nil, fmt.Errorf("proto codec: unsupported type %T", v)
	}
}

func (protoCodec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case proto.Message:
		return proto.Unmarshal(data, m)
	case *models.TaskRecord:
		var s structpb.Struct
		if err := proto.Unmarshal(data, &s); err != nil {
			return err
		}
		fields := s.AsMap()
		id, _ := fields["id"].(string)
		*m = models.TaskRecord{ID: id, Payload: fields["payload"]}
		return nil
	default:
		return fmt.Errorf("proto codec: unsupported type %T", v)
	}
}

func taskStruct(id string, payload any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(map[string]any{"id": id, "payload": payload})
	if err != nil {
		return nil, fmt.Errorf("proto codec: payload of task '%s': %w", id, err)
	}
	return s, nil
}
