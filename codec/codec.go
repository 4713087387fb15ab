// Package codec encodes collected tasks for transport to downstream consumers.
package codec

import (
	"fmt"
	"strings"
)

// Codec marshals tasks and task records for a single content type.
type Codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var aliases = map[string]string{
	"json":     "application/json",
	"cbor":     "application/cbor",
	"proto":    "application/protobuf",
	"protobuf": "application/protobuf",
}

// Registry maps content types (and short aliases such as "json") to codecs.
type Registry struct{ byType map[string]Codec }

// NewRegistry returns a registry preloaded with the codecs that cannot fail
// to initialize: JSON and Protobuf. CBOR is added with Register(CBOR()).
func NewRegistry() *Registry {
	r := &Registry{byType: make(map[string]Codec)}
	r.Register(JSON())
	r.Register(Proto())
	return r
}

// Default returns a registry with every built-in codec.
func Default() (*Registry, error) {
	r := NewRegistry()
	c, err := CBOR()
	if err != nil {
		return nil, fmt.Errorf("initializing cbor codec: %w", err)
	}
	r.Register(c)
	return r, nil
}

// Register adds or replaces a codec.
func (r *Registry) Register(c Codec) { r.byType[c.ContentType()] = c }

// Get returns a codec by content type or alias, or nil.
func (r *Registry) Get(name string) Codec {
	key := strings.ToLower(strings.TrimSpace(name))
	if ct, ok := aliases[key]; ok {
		key = ct
	}
	return r.byType[key]
}

// Lookup is like Get but reports unknown names as an error.
func (r *Registry) Lookup(name string) (Codec, error) {
	c := r.Get(name)
	if c == nil {
		return nil, fmt.Errorf("no codec registered for '%s'", name)
	}
	return c, nil
}
