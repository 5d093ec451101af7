package value

import (
	"math"
	"sort"
)

// Kind discriminates the variants of Value.
type Kind int8

const (
	KindNull Kind = iota
	KindBoolean
	KindInt
	KindFloat
	KindString
	KindEnum
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindBoolean:
		return "BOOLEAN"
	case KindInt:
		return "INT"
	case KindFloat:
		return "FLOAT"
	case KindString:
		return "STRING"
	case KindEnum:
		return "ENUM"
	case KindList:
		return "LIST"
	case KindObject:
		return "OBJECT"
	}
	return "UNKNOWN"
}

// Value is the closed runtime representation of every datum the engine
// produces or consumes: resolver results, argument values, variable values,
// and the response data tree. Object field order is significant and is
// preserved through JSON marshalling.
type Value struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Float  float64
	Str    string // String and Enum text
	List   []Value
	Fields []ObjectField
}

// ObjectField is one ordered key/value entry of an Object value.
type ObjectField struct {
	Name  string
	Value Value
}

func Null() Value              { return Value{Kind: KindNull} }
func Boolean(b bool) Value     { return Value{Kind: KindBoolean, Bool: b} }
func Int(i int64) Value        { return Value{Kind: KindInt, Int: i} }
func Float(f float64) Value    { return Value{Kind: KindFloat, Float: f} }
func String(s string) Value    { return Value{Kind: KindString, Str: s} }
func Enum(name string) Value   { return Value{Kind: KindEnum, Str: name} }
func List(items ...Value) Value {
	return Value{Kind: KindList, List: items}
}
func Object(fields ...ObjectField) Value {
	return Value{Kind: KindObject, Fields: fields}
}

// Field builds one ObjectField; a convenience for Object literals.
func Field(name string, v Value) ObjectField { return ObjectField{Name: name, Value: v} }

// IsNull reports whether v is the Null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Get returns the named field of an Object value.
func (v Value) Get(name string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// FromAny converts a JSON-decoded Go value into a Value. Map keys are sorted
// so the result is deterministic; execution order never depends on it.
func FromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case bool:
		return Boolean(x)
	case int:
		return Int(int64(x))
	case int64:
		return Int(x)
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			return Int(int64(x))
		}
		return Float(x)
	case string:
		return String(x)
	case []any:
		items := make([]Value, len(x))
		for i, item := range x {
			items[i] = FromAny(item)
		}
		return List(items...)
	case map[string]any:
		names := make([]string, 0, len(x))
		for name := range x {
			names = append(names, name)
		}
		sort.Strings(names)
		fields := make([]ObjectField, len(names))
		for i, name := range names {
			fields[i] = ObjectField{Name: name, Value: FromAny(x[name])}
		}
		return Object(fields...)
	}
	return Null()
}

// FromAnyMap converts a decoded JSON object into a name-to-Value map,
// as used for operation variables.
func FromAnyMap(m map[string]any) map[string]Value {
	out := make(map[string]Value, len(m))
	for name, v := range m {
		out[name] = FromAny(v)
	}
	return out
}
