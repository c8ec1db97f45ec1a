package tools

import (
	"encoding/json"
	"math"
)

// SchemaDialect is the JSON Schema draft the tool schemas are written in.
const SchemaDialect = "http://json-schema.org/draft-07/schema#"

// Types is a JSON Schema "type" keyword. A single type marshals as a plain
// string, several as an array.
type Types []string

// MarshalJSON implements json.Marshaler.
func (t Types) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Types) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = Types{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*t = many
	return nil
}

// Nullable reports whether null is an accepted value.
func (t Types) Nullable() bool {
	for _, s := range t {
		if s == "null" {
			return true
		}
	}
	return false
}

// Schema is the subset of JSON Schema used to describe tool arguments.
type Schema struct {
	Dialect     string             `json:"$schema,omitempty"`
	Title       string             `json:"title,omitempty"`
	Description string             `json:"description,omitempty"`
	Type        Types              `json:"type"`
	Format      string             `json:"format,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
	Maximum     *float64           `json:"maximum,omitempty"`
	Default     any                `json:"default,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	// PropertyOrder lists Properties keys in declaration order for display.
	PropertyOrder []string `json:"-"`
}

// Clone returns a deep copy of s.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.Type = append(Types(nil), s.Type...)
	c.Required = append([]string(nil), s.Required...)
	c.PropertyOrder = append([]string(nil), s.PropertyOrder...)
	if s.Minimum != nil {
		c.Minimum = float(*s.Minimum)
	}
	if s.Maximum != nil {
		c.Maximum = float(*s.Maximum)
	}
	if s.Properties != nil {
		c.Properties = make(map[string]*Schema, len(s.Properties))
		for k, v := range s.Properties {
			c.Properties[k] = v.Clone()
		}
	}
	return &c
}

// IsRequired reports whether the object schema requires property name.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Raw returns the schema as JSON.
func (s *Schema) Raw() json.RawMessage {
	data, err := json.Marshal(s)
	if err != nil {
		// Schemas are static data built from plain values.
		panic("tools: marshal schema: " + err.Error())
	}
	return data
}

func float(v float64) *float64 {
	return &v
}

// field is one property of a request object.
type field struct {
	name   string
	schema *Schema
}

// object builds an object schema; fields marked required by the caller
// are listed in Required in declaration order.
func object(title, description string, required []string, fields ...field) *Schema {
	s := &Schema{
		Dialect:     SchemaDialect,
		Title:       title,
		Description: description,
		Type:        Types{"object"},
		Required:    required,
		Properties:  make(map[string]*Schema, len(fields)),
	}
	for _, f := range fields {
		s.Properties[f.name] = f.schema
		s.PropertyOrder = append(s.PropertyOrder, f.name)
	}
	return s
}

func svgContentField() field {
	return field{"svg_content", &Schema{
		Description: "Complete SVG document markup to convert",
		Type:        Types{"string"},
	}}
}

func dimensionField(name, axis string) field {
	return field{name, &Schema{
		Description: "Output " + axis + " in pixels (default: the SVG's intrinsic " + axis + ")",
		Type:        Types{"integer", "null"},
		Format:      "uint32",
		Minimum:     float(0),
		Maximum:     float(math.MaxUint32),
	}}
}

func qualityField() field {
	return field{"quality", &Schema{
		Description: "JPEG quality from 0 to 100 (default: 85)",
		Type:        Types{"integer", "null"},
		Format:      "uint8",
		Minimum:     float(0),
		Maximum:     float(math.MaxUint8),
	}}
}

func returnBase64Field() field {
	return field{"return_base64", &Schema{
		Description: "Whether to return base64 data instead of file path (default: false)",
		Type:        Types{"boolean", "null"},
	}}
}
