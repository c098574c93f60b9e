package types

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"gopkg.in/yaml.v3"
)

// Kind identifies which variant a Value holds.
type Kind uint8

// Value kinds.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindStruct
	KindArray
	KindMap
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindStruct: "struct",
	KindArray:  "array",
	KindMap:    "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is a cell value: a tagged variant over null, bool, number,
// string, struct instance, array and map. The zero Value is null.
// Values are plain data; Clone produces a structurally independent copy
// and Equal compares structurally.
type Value struct {
	kind    Kind
	b       bool
	n       float64
	s       string // string payload, or the struct name for KindStruct
	elems   []Value
	entries map[string]Value // map entries, or struct fields for KindStruct
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns an array value holding copies of elems.
func Array(elems ...Value) Value {
	out := make([]Value, len(elems))
	for i, e := range elems {
		out[i] = e.Clone()
	}
	return Value{kind: KindArray, elems: out}
}

// Map returns a map value holding copies of entries.
func Map(entries map[string]Value) Value {
	return Value{kind: KindMap, entries: cloneEntries(entries)}
}

// StructOf returns a struct instance of the named struct holding copies of fields.
func StructOf(name string, fields map[string]Value) Value {
	return Value{kind: KindStruct, s: name, entries: cloneEntries(fields)}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the bool payload and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload and whether v is a number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string payload and whether v is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// StructName returns the struct name of a struct instance, or "".
func (v Value) StructName() string {
	if v.kind != KindStruct {
		return ""
	}
	return v.s
}

// Len returns the number of elements, entries or fields; 0 for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindMap, KindStruct:
		return len(v.entries)
	default:
		return 0
	}
}

// Elems returns deep copies of the elements of an array value.
func (v Value) Elems() []Value {
	if v.kind != KindArray {
		return nil
	}
	out := make([]Value, len(v.elems))
	for i, e := range v.elems {
		out[i] = e.Clone()
	}
	return out
}

// Entries returns deep copies of the entries of a map or struct value.
func (v Value) Entries() map[string]Value {
	if v.kind != KindMap && v.kind != KindStruct {
		return nil
	}
	return cloneEntries(v.entries)
}

// Keys returns the sorted keys of a map or struct value.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.entries))
	for k := range v.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns a copy of the entry stored under key in a map or struct value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap && v.kind != KindStruct {
		return Value{}, false
	}
	e, ok := v.entries[key]
	if !ok {
		return Value{}, false
	}
	return e.Clone(), true
}

// Index returns a copy of element i of an array value.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.elems) {
		return Value{}, false
	}
	return v.elems[i].Clone(), true
}

// Set stores a copy of elem under key in a map or struct value.
// Returns ErrTypeMismatch for any other kind.
func (v *Value) Set(key string, elem Value) error {
	if v.kind != KindMap && v.kind != KindStruct {
		return ErrTypeMismatch
	}
	if v.entries == nil {
		v.entries = make(map[string]Value)
	}
	v.entries[key] = elem.Clone()
	return nil
}

// Append adds a copy of elem to the end of an array value.
// Returns ErrTypeMismatch for any other kind.
func (v *Value) Append(elem Value) error {
	if v.kind != KindArray {
		return ErrTypeMismatch
	}
	v.elems = append(v.elems, elem.Clone())
	return nil
}

// Clone returns a deep copy of v sharing no mutable structure with it.
func (v Value) Clone() Value {
	out := v
	switch v.kind {
	case KindArray:
		out.elems = make([]Value, len(v.elems))
		for i, e := range v.elems {
			out.elems[i] = e.Clone()
		}
	case KindMap, KindStruct:
		out.entries = cloneEntries(v.entries)
	}
	return out
}

// Equal reports whether v and other are structurally equal. Struct
// instances are equal only when their struct names match.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.n == other.n
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.elems) != len(other.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(other.elems[i]) {
				return false
			}
		}
		return true
	case KindStruct:
		if v.s != other.s {
			return false
		}
		fallthrough
	case KindMap:
		if len(v.entries) != len(other.entries) {
			return false
		}
		for k, e := range v.entries {
			o, ok := other.entries[k]
			if !ok || !e.Equal(o) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts v into plain Go values: nil, bool, float64, string,
// []any and map[string]any. Struct instances become map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			out[i] = e.Interface()
		}
		return out
	case KindMap, KindStruct:
		out := make(map[string]any, len(v.entries))
		for k, e := range v.entries {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders v as compact JSON.
func (v Value) String() string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%s>", v.kind)
	}
	return string(b)
}

// FromAny converts decoded JSON or YAML data into a Value.
// Objects become map values; callers tag struct instances with Tag.
// Returns ErrInvalidValue for unsupported Go types.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t.Clone(), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case []any:
		elems := make([]Value, len(t))
		for i, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = ev
		}
		return Value{kind: KindArray, elems: elems}, nil
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			entries[k] = ev
		}
		return Value{kind: KindMap, entries: entries}, nil
	case map[any]any:
		entries := make(map[string]Value, len(t))
		for k, e := range t {
			ev, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			entries[fmt.Sprint(k)] = ev
		}
		return Value{kind: KindMap, entries: entries}, nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidValue, x)
	}
}

// ParseJSON decodes a JSON literal into a Value. Malformed input yields an
// error wrapping ErrInvalidValue.
func ParseJSON(data []byte) (Value, error) {
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return v, nil
}

// Tag converts a map value into an instance of the named struct. Any other
// kind is returned unchanged.
func (v Value) Tag(structName string) Value {
	if v.kind != KindMap && v.kind != KindStruct {
		return v
	}
	return Value{kind: KindStruct, s: structName, entries: cloneEntries(v.entries)}
}

// MarshalJSON encodes v as its plain JSON literal. Integral numbers are
// written without a fractional part.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber && (math.IsNaN(v.n) || math.IsInf(v.n, 0)) {
		return nil, fmt.Errorf("%w: non-finite number", ErrInvalidValue)
	}
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON literal into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// UnmarshalYAML decodes any YAML node into v.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func cloneEntries(in map[string]Value) map[string]Value {
	if in == nil {
		return map[string]Value{}
	}
	out := make(map[string]Value, len(in))
	for k, e := range in {
		out[k] = e.Clone()
	}
	return out
}
