// Package serialize builds value.Value trees from Go values.
//
// Types opt in by implementing Marshaler; the package-level helpers cover
// the builtin shapes (numbers of every width, booleans, strings, pointers,
// slices, maps) so a MarshalValue implementation is usually a handful of
// calls. Serialization is pure and never fails.
package serialize

import (
	"github.com/mcncl/jsontree/value"
)

// Marshaler is implemented by types that can represent themselves as a
// Value tree.
type Marshaler interface {
	MarshalValue() value.Value
}

// ToJSON serializes m and renders the result as compact JSON text.
func ToJSON(m Marshaler) string {
	return m.MarshalValue().JSON()
}

type numeric interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Number serializes any numeric type by widening to float64. Integers
// above 2^53 lose precision; that is inherent to the number model.
func Number[T numeric](n T) value.Value {
	return value.Number(float64(n))
}

// Bool serializes a boolean.
func Bool[T ~bool](b T) value.Value {
	return value.Bool(bool(b))
}

// String serializes a string.
func String[T ~string](s T) value.Value {
	return value.String(string(s))
}

// Optional serializes a pointer: nil becomes null, otherwise the pointee
// is serialized with fn.
func Optional[T any](p *T, fn func(T) value.Value) value.Value {
	if p == nil {
		return value.Null()
	}
	return fn(*p)
}

// Slice serializes a slice elementwise into an array, preserving order.
func Slice[T any](s []T, fn func(T) value.Value) value.Value {
	elems := make([]value.Value, len(s))
	for i, e := range s {
		elems[i] = fn(e)
	}
	return value.Array(elems...)
}

// Map serializes a map into an object. Keys are rendered through their
// text form with key; values are serialized with fn.
func Map[K comparable, V any](m map[K]V, key func(K) string, fn func(V) value.Value) value.Value {
	members := make(map[string]value.Value, len(m))
	for k, v := range m {
		members[key(k)] = fn(v)
	}
	return value.Object(members)
}

// StringMap serializes a string-keyed map into an object.
func StringMap[V any](m map[string]V, fn func(V) value.Value) value.Value {
	members := make(map[string]value.Value, len(m))
	for k, v := range m {
		members[k] = fn(v)
	}
	return value.Object(members)
}

// Result collapses a (value, error) pair to whichever side is populated:
// a non-nil error wins and is serialized as its message string, otherwise
// the value is serialized with fn.
func Result[T any](v T, err error, fn func(T) value.Value) value.Value {
	if err != nil {
		return value.String(err.Error())
	}
	return fn(v)
}

// Marshalers serializes a slice whose elements implement Marshaler.
func Marshalers[T Marshaler](s []T) value.Value {
	elems := make([]value.Value, len(s))
	for i, e := range s {
		elems[i] = e.MarshalValue()
	}
	return value.Array(elems...)
}
