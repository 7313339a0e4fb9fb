package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Kind identifies the shape held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindMap
)

// Value is a front-matter value: a scalar, a list, or a nested map.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  int
	flt  float64
	b    bool
	list []Value
	m    map[string]Value
}

// StringValue returns a string Value.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// IntValue returns an integer Value.
func IntValue(n int) Value { return Value{kind: KindInt, num: n} }

// ListValue returns a list Value.
func ListValue(items ...Value) Value { return Value{kind: KindList, list: items} }

// MapValue returns a map Value.
func MapValue(m map[string]Value) Value { return Value{kind: KindMap, m: m} }

// FromAny converts a decoded YAML value into a Value. Scalars outside the
// closed set are stringified so that nothing in the front matter is lost.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case string:
		return StringValue(x)
	case int:
		return IntValue(x)
	case int64:
		return IntValue(int(x))
	case uint64:
		return IntValue(int(x))
	case float64:
		return Value{kind: KindFloat, flt: x}
	case bool:
		return Value{kind: KindBool, b: x}
	case time.Time:
		return StringValue(x.Format(time.RFC3339))
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = FromAny(item)
		}
		return ListValue(items...)
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, item := range x {
			m[k] = FromAny(item)
		}
		return MapValue(m)
	case map[any]any:
		m := make(map[string]Value, len(x))
		for k, item := range x {
			m[fmt.Sprint(k)] = FromAny(item)
		}
		return MapValue(m)
	default:
		return StringValue(fmt.Sprint(x))
	}
}

// Kind reports the shape of v.
func (v Value) Kind() Kind { return v.kind }

// Str returns the string held by v.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Int returns the integer held by v. Floats with no fractional part count.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case KindInt:
		return v.num, true
	case KindFloat:
		if v.flt == float64(int(v.flt)) {
			return int(v.flt), true
		}
	}
	return 0, false
}

// Strings returns the string items of a list, or a one-element slice for a
// plain string. Non-string list items are skipped.
func (v Value) Strings() ([]string, bool) {
	switch v.kind {
	case KindString:
		return []string{v.str}, true
	case KindList:
		out := make([]string, 0, len(v.list))
		for _, item := range v.list {
			if s, ok := item.Str(); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

// List returns the items of a list Value.
func (v Value) List() ([]Value, bool) {
	return v.list, v.kind == KindList
}

// Map returns the entries of a map Value.
func (v Value) Map() (map[string]Value, bool) {
	return v.m, v.kind == KindMap
}

// Interface returns v as plain Go values suitable for encoding.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.b
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, item := range v.m {
			out[k] = item.Interface()
		}
		return out
	}
	return nil
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindMap {
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return fmt.Sprintf("map%v", keys)
	}
	return fmt.Sprint(v.Interface())
}

// MarshalJSON encodes v as its natural JSON shape.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON value into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}
