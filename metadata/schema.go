package metadata

import (
	"fmt"
	"sort"

	"github.com/hupe1980/tskit/codec"
)

// FieldType defines the data type of a metadata field.
type FieldType uint8

const (
	FieldTypeAny FieldType = iota
	FieldTypeInt
	FieldTypeFloat
	FieldTypeString
	FieldTypeBool
	FieldTypeArray
)

var jsonTypes = map[FieldType]string{
	FieldTypeInt:    "integer",
	FieldTypeFloat:  "number",
	FieldTypeString: "string",
	FieldTypeBool:   "boolean",
	FieldTypeArray:  "array",
}

// String returns the string representation of the FieldType.
func (t FieldType) String() string {
	switch t {
	case FieldTypeAny:
		return "Any"
	case FieldTypeInt:
		return "Int"
	case FieldTypeFloat:
		return "Float"
	case FieldTypeString:
		return "String"
	case FieldTypeBool:
		return "Bool"
	case FieldTypeArray:
		return "Array"
	default:
		return "Unknown"
	}
}

// Schema describes JSON object metadata. Its JSON form is the string stored
// as a table's metadata schema.
type Schema struct {
	Codec  string
	Fields map[string]FieldType
}

type property struct {
	Type string `json:"type,omitempty"`
}

type schemaDoc struct {
	Codec      string              `json:"codec"`
	Type       string              `json:"type"`
	Properties map[string]property `json:"properties,omitempty"`
}

// JSON renders s as a metadata schema string.
func (s Schema) JSON() (string, error) {
	doc := schemaDoc{Codec: s.Codec, Type: "object"}
	if doc.Codec == "" {
		doc.Codec = "json"
	}
	if len(s.Fields) > 0 {
		doc.Properties = make(map[string]property, len(s.Fields))
		for name, t := range s.Fields {
			doc.Properties[name] = property{Type: jsonTypes[t]}
		}
	}
	b, err := codec.Default.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseSchema reads a schema string written by JSON. Properties with types
// it does not know are kept as FieldTypeAny.
func ParseSchema(s string) (Schema, error) {
	var doc schemaDoc
	if err := codec.Default.Unmarshal([]byte(s), &doc); err != nil {
		return Schema{}, fmt.Errorf("metadata: parse schema: %w", err)
	}
	if doc.Type != "" && doc.Type != "object" {
		return Schema{}, fmt.Errorf("metadata: schema type %q is not an object", doc.Type)
	}
	out := Schema{Codec: doc.Codec, Fields: make(map[string]FieldType, len(doc.Properties))}
	for name, p := range doc.Properties {
		out.Fields[name] = FieldTypeAny
		for t, js := range jsonTypes {
			if js == p.Type {
				out.Fields[name] = t
			}
		}
	}
	return out, nil
}

// ValidateMap checks if the given metadata map conforms to the schema.
// This is useful for validating decoded JSON before it is trusted.
func (s Schema) ValidateMap(md map[string]any) error {
	keys := make([]string, 0, len(md))
	for k := range md {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		expectedType, ok := s.Fields[k]
		if !ok {
			continue
		}
		if v := md[k]; !checkType(v, expectedType) {
			return fmt.Errorf("field %q has invalid type %T, expected %s", k, v, expectedType)
		}
	}
	return nil
}

// Validate decodes JSON metadata bytes and checks them against the schema.
func (s Schema) Validate(data []byte) error {
	var md map[string]any
	c, ok := codec.ByName(s.Codec)
	if !ok {
		c = codec.Default
	}
	if err := c.Unmarshal(data, &md); err != nil {
		return fmt.Errorf("metadata: %w", err)
	}
	return s.ValidateMap(md)
}

func checkType(v any, expected FieldType) bool {
	if v == nil {
		return true
	}

	switch expected {
	case FieldTypeAny:
		return true
	case FieldTypeInt:
		switch val := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		case float64:
			// JSON unmarshals numbers as float64. Check if it's an integer.
			return val == float64(int64(val))
		}
	case FieldTypeFloat:
		switch v.(type) {
		case float32, float64:
			return true
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		}
	case FieldTypeString:
		_, ok := v.(string)
		return ok
	case FieldTypeBool:
		_, ok := v.(bool)
		return ok
	case FieldTypeArray:
		switch v.(type) {
		case []any, []string, []int, []float64, []bool:
			return true
		}
	}
	return false
}
