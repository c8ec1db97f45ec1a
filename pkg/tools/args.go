package tools

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/matzehuels/svgmcp/pkg/errors"
)

// Args is an untyped argument bag as decoded from a transport.
type Args map[string]any

// lookup returns the value of key, treating JSON null as absent.
func (a Args) lookup(key string) (any, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// requiredString extracts a required string field.
func (a Args) requiredString(key string) (string, error) {
	v, ok := a.lookup(key)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidParams, "missing %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidParams, "%s must be a string, got %s", key, typeName(v))
	}
	return s, nil
}

// optionalUint extracts an optional unsigned integer no larger than max.
// Numbers may arrive as float64 (encoding/json), json.Number or any Go
// integer type. Fractional, negative or oversized values are wrong-typed.
func (a Args) optionalUint(key string, max uint64) (*int, error) {
	v, ok := a.lookup(key)
	if !ok {
		return nil, nil
	}
	n, ok := toUint(v)
	if !ok || n > max {
		return nil, errors.New(errors.ErrCodeInvalidParams, "%s must be an integer between 0 and %d, got %s", key, max, describe(v))
	}
	i := int(n)
	return &i, nil
}

// optionalBool extracts an optional boolean, defaulting to false.
func (a Args) optionalBool(key string) (bool, error) {
	v, ok := a.lookup(key)
	if !ok {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.New(errors.ErrCodeInvalidParams, "%s must be a boolean, got %s", key, typeName(v))
	}
	return b, nil
}

func toUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case float64:
		return floatToUint(n)
	case float32:
		return floatToUint(float64(n))
	case json.Number:
		if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
			return u, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToUint(f)
	case int:
		return signedToUint(int64(n))
	case int8:
		return signedToUint(int64(n))
	case int16:
		return signedToUint(int64(n))
	case int32:
		return signedToUint(int64(n))
	case int64:
		return signedToUint(n)
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	}
	return 0, false
}

func floatToUint(f float64) (uint64, bool) {
	if f < 0 || f != math.Trunc(f) || f > math.MaxUint32 {
		return 0, false
	}
	return uint64(f), true
}

func signedToUint(n int64) (uint64, bool) {
	if n < 0 {
		return 0, false
	}
	return uint64(n), true
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float32, float64, json.Number, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "unsupported value"
}

// describe renders v for error messages: numbers by value, the rest by type.
func describe(v any) string {
	if typeName(v) != "number" {
		return typeName(v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "number"
	}
	return string(data)
}
