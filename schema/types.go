// Package schema declares the typed settings keys of the wallpaper extension,
// their ordered domain lists, and the JSON Schema of the portable settings
// document derived from them.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/grovetools/wallprefs/errors"
)

// Key names one persisted value.
type Key string

// ValueType is the declared type of a settings key.
type ValueType string

const (
	TypeBool   ValueType = "bool"
	TypeString ValueType = "string"
	TypeInt    ValueType = "int"
	TypeDouble ValueType = "double"
	// TypeEnum is stored as a string; membership in the domain list is
	// enforced by the validator, not the store.
	TypeEnum ValueType = "enum"
)

// JSONType returns the JSON Schema type name used for documents.
func (t ValueType) JSONType() string {
	switch t {
	case TypeBool:
		return "boolean"
	case TypeInt:
		return "integer"
	case TypeDouble:
		return "number"
	default:
		return "string"
	}
}

// Definition declares a single key.
type Definition struct {
	Key     Key
	Type    ValueType
	Default interface{}
	Summary string

	// Bounds apply to TypeInt and TypeDouble only.
	Min, Max float64
	Bounded  bool

	// Domain is set for TypeEnum keys.
	Domain *DomainList
}

// Bool declares a boolean key.
func Bool(key Key, def bool, summary string) *Definition {
	return &Definition{Key: key, Type: TypeBool, Default: def, Summary: summary}
}

// String declares a free-form string key.
func String(key Key, def string, summary string) *Definition {
	return &Definition{Key: key, Type: TypeString, Default: def, Summary: summary}
}

// Int declares a bounded integer key.
func Int(key Key, def, min, max int, summary string) *Definition {
	return &Definition{
		Key: key, Type: TypeInt, Default: def, Summary: summary,
		Min: float64(min), Max: float64(max), Bounded: true,
	}
}

// Double declares a bounded floating point key.
func Double(key Key, def, min, max float64, summary string) *Definition {
	return &Definition{
		Key: key, Type: TypeDouble, Default: def, Summary: summary,
		Min: min, Max: max, Bounded: true,
	}
}

// Enum declares a string key whose legal values come from an ordered domain list.
func Enum(key Key, def string, domain *DomainList, summary string) *Definition {
	return &Definition{Key: key, Type: TypeEnum, Default: def, Summary: summary, Domain: domain}
}

// Coerce converts v to the canonical Go representation of the key's type
// (bool, string, int or float64). Numbers arriving as float64 or json.Number
// from decoded documents are accepted for integer keys when they are integral.
func (d *Definition) Coerce(v interface{}) (interface{}, error) {
	switch d.Type {
	case TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeString, TypeEnum:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TypeInt:
		if f, ok := toFloat(v); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int(f), nil
		}
	case TypeDouble:
		if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
	}
	return nil, errors.TypeMismatch(string(d.Key), string(d.Type), v)
}

// Parse converts the textual form of a value (as typed on a command line)
// into the key's canonical representation.
func (d *Definition) Parse(text string) (interface{}, error) {
	switch d.Type {
	case TypeBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, errors.TypeMismatch(string(d.Key), string(d.Type), text)
		}
		return b, nil
	case TypeInt:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return nil, errors.TypeMismatch(string(d.Key), string(d.Type), text)
		}
		return n, nil
	case TypeDouble:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, errors.TypeMismatch(string(d.Key), string(d.Type), text)
		}
		return d.Coerce(f)
	default:
		return text, nil
	}
}

// Clamp forces a numeric value into the key's bounds. Non-numeric keys and
// unbounded definitions return v unchanged.
func (d *Definition) Clamp(v interface{}) interface{} {
	if !d.Bounded {
		return v
	}
	f, ok := toFloat(v)
	if !ok {
		return v
	}
	f = math.Max(d.Min, math.Min(d.Max, f))
	if d.Type == TypeInt {
		return int(f)
	}
	return f
}

// Format renders a value for display.
func (d *Definition) Format(v interface{}) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Schema is an ordered set of key definitions.
type Schema struct {
	id    string
	defs  map[Key]*Definition
	order []Key
}

// New builds a schema from definitions; declaration order is preserved.
func New(id string, defs ...*Definition) *Schema {
	s := &Schema{id: id, defs: make(map[Key]*Definition, len(defs))}
	for _, def := range defs {
		if _, dup := s.defs[def.Key]; dup {
			panic(fmt.Sprintf("schema %s: duplicate key %s", id, def.Key))
		}
		s.defs[def.Key] = def
		s.order = append(s.order, def.Key)
	}
	return s
}

// ID returns the schema identifier.
func (s *Schema) ID() string { return s.id }

// Lookup returns the definition of key.
func (s *Schema) Lookup(key Key) (*Definition, bool) {
	def, ok := s.defs[key]
	return def, ok
}

// MustLookup returns the definition of key or an UNKNOWN_KEY error.
func (s *Schema) MustLookup(key Key) (*Definition, error) {
	def, ok := s.defs[key]
	if !ok {
		return nil, errors.UnknownKey(s.id, string(key))
	}
	return def, nil
}

// Has reports whether key is declared.
func (s *Schema) Has(key Key) bool {
	_, ok := s.defs[key]
	return ok
}

// Keys returns every key in declaration order.
func (s *Schema) Keys() []Key {
	out := make([]Key, len(s.order))
	copy(out, s.order)
	return out
}

// Defaults returns the default value of every key.
func (s *Schema) Defaults() map[Key]interface{} {
	out := make(map[Key]interface{}, len(s.defs))
	for key, def := range s.defs {
		out[key] = def.Default
	}
	return out
}
