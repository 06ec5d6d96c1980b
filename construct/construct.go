// Package construct builds Go values back out of value.Value trees.
//
// Types opt in by implementing Unmarshaler. The package-level converters
// all return the shared *errors.CodecError, so composite conversions
// (slices of objects, maps of slices) can propagate a child failure
// without translation; they stop at the first failing element.
package construct

import (
	"fmt"
	"math"
	"strconv"

	stderrors "errors"

	"github.com/mcncl/jsontree/errors"
	"github.com/mcncl/jsontree/parser"
	"github.com/mcncl/jsontree/value"
)

// Unmarshaler is implemented by types that can reconstruct themselves
// from a Value tree.
type Unmarshaler interface {
	UnmarshalValue(v value.Value) error
}

// FromJSON parses jsonText and hands the resulting tree to u. It is the
// composition of parser.ParseString and UnmarshalValue.
func FromJSON(jsonText string, u Unmarshaler) error {
	v, err := parser.ParseString(jsonText)
	if err != nil {
		return err
	}
	return u.UnmarshalValue(v)
}

// Decode parses jsonText and converts the tree with from. Useful when the
// target is built by a conversion function rather than an Unmarshaler.
func Decode[T any](jsonText string, from func(value.Value) (T, error)) (T, error) {
	var zero T
	v, err := parser.ParseString(jsonText)
	if err != nil {
		return zero, err
	}
	return from(v)
}

type signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Int converts a number node to a signed integer type. The stored float64
// is rendered to decimal text and re-parsed, so a fractional value or one
// that does not fit the target width fails rather than truncating.
func Int[T signed](v value.Value) (T, error) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, wrongKind("number", v)
	}
	text := strconv.FormatFloat(n, 'f', -1, 64)
	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, outOfRange(text)
	}
	if int64(T(i)) != i {
		return 0, outOfRange(text)
	}
	return T(i), nil
}

// Uint converts a number node to an unsigned integer type, with the same
// render-and-reparse range check as Int.
func Uint[T unsigned](v value.Value) (T, error) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, wrongKind("number", v)
	}
	text := strconv.FormatFloat(n, 'f', -1, 64)
	u, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, outOfRange(text)
	}
	if uint64(T(u)) != u {
		return 0, outOfRange(text)
	}
	return T(u), nil
}

// Float converts a number node to a floating-point type.
func Float[T ~float32 | ~float64](v value.Value) (T, error) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, wrongKind("number", v)
	}
	f := T(n)
	if math.IsInf(float64(f), 0) && !math.IsInf(n, 0) {
		return 0, outOfRange(strconv.FormatFloat(n, 'g', -1, 64))
	}
	return f, nil
}

// Bool converts a boolean node.
func Bool(v value.Value) (bool, error) {
	b, ok := v.AsBool()
	if !ok {
		return false, wrongKind("bool", v)
	}
	return b, nil
}

// String converts a string node.
func String(v value.Value) (string, error) {
	s, ok := v.AsString()
	if !ok {
		return "", wrongKind("string", v)
	}
	return s, nil
}

// SliceOf converts an array node elementwise. The node must be an array;
// the first failing element aborts the conversion with its own error.
func SliceOf[T any](v value.Value, from func(value.Value) (T, error)) ([]T, error) {
	elems, ok := v.AsArray()
	if !ok {
		return nil, wrongKind("array", v)
	}
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		t, err := from(e)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// MapOf converts an object node into a string-keyed map, converting every
// member value with from.
func MapOf[T any](v value.Value, from func(value.Value) (T, error)) (map[string]T, error) {
	members, ok := v.AsObject()
	if !ok {
		return nil, wrongKind("object", v)
	}
	out := make(map[string]T, len(members))
	for k, e := range members {
		t, err := from(e)
		if err != nil {
			return nil, err
		}
		out[k] = t
	}
	return out, nil
}

// MapOfKeyed converts an object node into a map with typed keys: every key
// is converted from its text form with key, every value with from.
func MapOfKeyed[K comparable, T any](v value.Value, key func(string) (K, error), from func(value.Value) (T, error)) (map[K]T, error) {
	members, ok := v.AsObject()
	if !ok {
		return nil, wrongKind("object", v)
	}
	out := make(map[K]T, len(members))
	for k, e := range members {
		kk, err := key(k)
		if err != nil {
			return nil, collapse(fmt.Sprintf("object key %q", k), err)
		}
		t, err := from(e)
		if err != nil {
			return nil, err
		}
		out[kk] = t
	}
	return out, nil
}

func wrongKind(want string, v value.Value) *errors.CodecError {
	return errors.NewConversionError(
		fmt.Sprintf("expected %s, got %s", want, v.Kind()), errors.ErrWrongKind)
}

func outOfRange(text string) *errors.CodecError {
	return errors.NewConversionError(
		fmt.Sprintf("number %s does not fit the target type", text), errors.ErrOutOfRange)
}

// collapse folds a foreign error into the shared conversion error type,
// leaving errors that already are CodecError untouched.
func collapse(context string, err error) error {
	var ce *errors.CodecError
	if stderrors.As(err, &ce) {
		return err
	}
	return errors.NewConversionError(context, err)
}
