// Package value defines the in-memory representation of a JSON document:
// a tagged union over the six JSON shapes, with accessors, structural
// equality and compact textual rendering.
package value

import (
	"strconv"
	"strings"
)

// Kind identifies which variant of a Value is active.
type Kind int8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		panic("unknown Kind")
	}
}

// Value is one node of a JSON document tree. Exactly one variant is active,
// selected by Kind. A Value is immutable once built: the container accessors
// hand out copies, so a tree can be shared freely between readers.
//
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	arr  []Value
	obj  map[string]Value
}

// True and False are the two boolean values.
var (
	True  = Value{kind: KindBool, b: true}
	False = Value{kind: KindBool}
)

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a numeric value. The parser never produces NaN or an
// infinity, but this constructor does not reject them; rendering such a
// value yields non-standard JSON.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// String returns a string value. The payload is stored verbatim; escaping
// only happens during rendering.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Array returns an array value holding elems in order.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// Object returns an object value holding the given members. Keys are unique
// by construction of the map; member order is not tracked.
func Object(members map[string]Value) Value {
	return Value{kind: KindObject, obj: members}
}

// Kind reports which variant is active.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsArray() bool  { return v.kind == KindArray }
func (v Value) IsObject() bool { return v.kind == KindObject }

// AsString returns the string payload if the value is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsNumber returns the numeric payload if the value is a number.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsBool returns the boolean payload if the value is a boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsArray returns a copy of the element slice if the value is an array.
// Mutating the copy does not affect the tree.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	out := make([]Value, len(v.arr))
	copy(out, v.arr)
	return out, true
}

// AsObject returns a copy of the member map if the value is an object.
// The copy may be mutated freely; field extraction during conversions
// relies on this to consume members by removal.
func (v Value) AsObject() (map[string]Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	out := make(map[string]Value, len(v.obj))
	for k, val := range v.obj {
		out[k] = val
	}
	return out, true
}

// Len returns the number of elements or members of a container value, and
// zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	default:
		return 0
	}
}

// Equal reports structural equality. Two container values are equal when
// they hold equal children (arrays ordered, objects keyed); scalars compare
// by payload. One deliberate permissive rule: a number equals a string when
// the number's canonical rendering matches the string content, so
// Number(1) and String("1") compare equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		if v.kind == KindNumber && other.kind == KindString {
			return formatNumber(v.num) == other.str
		}
		if v.kind == KindString && other.kind == KindNumber {
			return v.str == formatNumber(other.num)
		}
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindNumber:
		return v.num == other.num
	case KindString:
		return v.str == other.str
	case KindArray:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(other.obj) {
			return false
		}
		for k, val := range v.obj {
			o, ok := other.obj[k]
			if !ok || !val.Equal(o) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// JSON renders the value as compact JSON text: no inserted whitespace,
// strings quoted with only quote and backslash escaped, numbers in their
// shortest round-trippable decimal form. Object member order follows map
// iteration order and is unspecified.
func (v Value) JSON() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

// String implements fmt.Stringer and is identical to JSON.
func (v Value) String() string {
	return v.JSON()
}

func (v Value) render(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(formatNumber(v.num))
	case KindString:
		renderString(sb, v.str)
	case KindArray:
		sb.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.render(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		first := true
		for k, e := range v.obj {
			if !first {
				sb.WriteByte(',')
			}
			first = false
			renderString(sb, k)
			sb.WriteByte(':')
			e.render(sb)
		}
		sb.WriteByte('}')
	}
}

func renderString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('"')
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
