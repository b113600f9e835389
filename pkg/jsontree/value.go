// Package jsontree provides a tagged-variant representation of JSON-like
// document trees, with structural equality, canonical serialization, and
// field-level diffing.
package jsontree

import (
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

// Kind identifies the variant held by a Value.
type Kind int

// Value kinds, in comparison order.
const (
	Null Kind = iota
	Bool
	Number
	String
	Binary
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Binary:
		return "binary"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single node in a JSON-like document tree. The zero Value is
// null. Values are immutable once built.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string // String text or Binary base64
	items  []Value
	fields map[string]Value
}

// FromAny converts a decoded YAML/JSON value (maps, slices, scalars) into a
// Value. Integer and float numerics are normalized to a single number
// representation so that YAML 2 and JSON 2.0 compare equal.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Value{}, nil
	case bool:
		return Value{kind: Bool, b: t}, nil
	case string:
		return Value{kind: String, s: t}, nil
	case []byte:
		return Value{kind: Binary, s: base64.StdEncoding.EncodeToString(t)}, nil
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			fv, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			fields[k] = fv
		}
		return Value{kind: Object, fields: fields}, nil
	case map[any]any:
		// Older YAML decoders produce interface-keyed maps.
		fields := make(map[string]Value, len(t))
		for k, item := range t {
			ks, ok := k.(string)
			if !ok {
				return Value{}, fmt.Errorf("non-string object key %v", k)
			}
			fv, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			fields[ks] = fv
		}
		return Value{kind: Object, fields: fields}, nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			iv, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}
		return Value{kind: Array, items: items}, nil
	}
	if n, ok := toFloat64(v); ok {
		return Value{kind: Number, n: n}, nil
	}
	return Value{}, fmt.Errorf("unsupported value type %T", v)
}

// Parse parses raw JSON text into a Value.
func Parse(data []byte) (Value, error) {
	decoded, err := oj.Parse(data)
	if err != nil {
		return Value{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return FromAny(decoded)
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == Null }

// ToAny converts v back to the generic representation used by encoders.
func (v Value) ToAny() any {
	switch v.kind {
	case Null:
		return nil
	case Bool:
		return v.b
	case Number:
		// Render integral numbers without a fractional part.
		if v.n == float64(int64(v.n)) {
			return int64(v.n)
		}
		return v.n
	case String:
		return v.s
	case Binary:
		return map[string]any{"binary": v.s}
	case Array:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.ToAny()
		}
		return out
	case Object:
		out := make(map[string]any, len(v.fields))
		for k, f := range v.fields {
			out[k] = f.ToAny()
		}
		return out
	}
	return nil
}

// Equal reports structural equality: object key order is irrelevant, array
// order is significant, numbers compare by value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Bool:
		return v.b == o.b
	case Number:
		return v.n == o.n
	case String, Binary:
		return v.s == o.s
	case Array:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for k, f := range v.fields {
			of, ok := o.fields[k]
			if !ok || !f.Equal(of) {
				return false
			}
		}
		return true
	}
	return false
}

// Canonical renders v as deterministic JSON: object keys sorted, no
// insignificant whitespace. Two structurally equal values always produce the
// same canonical text, which makes it suitable for digests and indexes.
func (v Value) Canonical() string {
	opts := ojg.Options{Sort: true}
	data, err := oj.Marshal(v.ToAny(), &opts)
	if err != nil {
		// ToAny only yields JSON-representable types.
		panic(fmt.Sprintf("jsontree: canonical marshal failed: %v", err))
	}
	return string(data)
}

// Keys returns the sorted key set of an Object value.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Field returns the named field of an Object value.
func (v Value) Field(name string) (Value, bool) {
	f, ok := v.fields[name]
	return f, ok
}

// Items returns the elements of an Array value.
func (v Value) Items() []Value { return v.items }

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	default:
		return 0, false
	}
}
