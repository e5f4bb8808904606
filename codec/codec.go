// Package codec centralizes the JSON encodings used for metadata and
// provenance records.
//
// Metadata columns hold opaque bytes; nothing in tskit requires JSON. The
// codecs here are conveniences for client metadata types and the encoding
// of provenance records, whose format is JSON by convention.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// Metadata schemas written by tskit record the codec name, so readers can
// select the matching codec.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal encodes v or panics. Metadata encoders use it to satisfy the
// never-failing MarshalMetadata contract for types that always encode.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
