package construct

import (
	"fmt"
	"sort"

	"github.com/mcncl/jsontree/errors"
	"github.com/mcncl/jsontree/value"
)

// Fields is the member map of an object node, used inside UnmarshalValue
// implementations to pull typed fields out one by one. Take and its
// variants remove the member they read, so a field cannot be consumed
// twice and whatever is left over can be inspected with Remaining.
//
// Because Value.AsObject returns a copy, consuming fields never mutates
// the original tree.
type Fields map[string]value.Value

// FieldsOf returns the member map of an object node.
func FieldsOf(v value.Value) (Fields, error) {
	members, ok := v.AsObject()
	if !ok {
		return nil, wrongKind("object", v)
	}
	return Fields(members), nil
}

// Has reports whether the field is still present.
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// Remaining returns the names of unconsumed fields in sorted order.
// Callers wanting "no unknown fields" semantics check this after
// extraction; nothing is enforced automatically.
func (f Fields) Remaining() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Peek converts the named field without removing it. A missing field is an
// error; a conversion failure propagates unchanged.
func Peek[T any](f Fields, name string, from func(value.Value) (T, error)) (T, error) {
	var zero T
	v, ok := f[name]
	if !ok {
		return zero, missingField(name)
	}
	return from(v)
}

// Take removes the named field and converts it, propagating the
// conversion's own error. A missing field is an error.
func Take[T any](f Fields, name string, from func(value.Value) (T, error)) (T, error) {
	var zero T
	v, ok := f[name]
	if !ok {
		return zero, missingField(name)
	}
	delete(f, name)
	return from(v)
}

// TakeWith removes the named field and converts it with an arbitrary
// function, collapsing any foreign error type into the shared conversion
// error.
func TakeWith[T any](f Fields, name string, fn func(value.Value) (T, error)) (T, error) {
	var zero T
	v, ok := f[name]
	if !ok {
		return zero, missingField(name)
	}
	delete(f, name)
	t, err := fn(v)
	if err != nil {
		return zero, collapse(fmt.Sprintf("field %q", name), err)
	}
	return t, nil
}

// TakeOptional removes the named field and converts it. A missing or null
// field yields nil with no error; a present field that fails to convert
// propagates the conversion error.
func TakeOptional[T any](f Fields, name string, from func(value.Value) (T, error)) (*T, error) {
	v, ok := f[name]
	if !ok {
		return nil, nil
	}
	delete(f, name)
	if v.IsNull() {
		return nil, nil
	}
	t, err := from(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TakeUnmarshaler removes the named field and hands it to u.
func TakeUnmarshaler(f Fields, name string, u Unmarshaler) error {
	v, ok := f[name]
	if !ok {
		return missingField(name)
	}
	delete(f, name)
	return u.UnmarshalValue(v)
}

func missingField(name string) *errors.CodecError {
	return errors.NewConversionError(
		fmt.Sprintf("missing required field %q", name), errors.ErrMissingField)
}
