package construct

import (
	"fmt"
	"strconv"
	"testing"

	stderrors "errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsontree/errors"
	"github.com/mcncl/jsontree/value"
)

type account struct {
	ID        int64
	Name      string
	Tags      []string
	Balance   float64
	Suspended *bool
}

func (a *account) UnmarshalValue(v value.Value) error {
	fields, err := FieldsOf(v)
	if err != nil {
		return err
	}
	if a.ID, err = Take(fields, "id", Int[int64]); err != nil {
		return err
	}
	if a.Name, err = Take(fields, "name", String); err != nil {
		return err
	}
	if a.Tags, err = Take(fields, "tags", func(v value.Value) ([]string, error) {
		return SliceOf(v, String)
	}); err != nil {
		return err
	}
	if a.Balance, err = Take(fields, "balance", Float[float64]); err != nil {
		return err
	}
	if a.Suspended, err = TakeOptional(fields, "suspended", Bool); err != nil {
		return err
	}
	return nil
}

func TestInt_Narrowing(t *testing.T) {
	n, err := Int[int8](value.Number(42))
	require.NoError(t, err)
	assert.Equal(t, int8(42), n)

	wide, err := Int[int64](value.Number(-1234567))
	require.NoError(t, err)
	assert.Equal(t, int64(-1234567), wide)

	_, err = Int[int8](value.Number(300))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrOutOfRange))

	_, err = Int[int64](value.Number(42.5))
	require.Error(t, err, "fractional values must not truncate")
	assert.True(t, stderrors.Is(err, errors.ErrOutOfRange))

	_, err = Int[int](value.String("42"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrWrongKind))
}

func TestUint_Narrowing(t *testing.T) {
	n, err := Uint[uint16](value.Number(65535))
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), n)

	_, err = Uint[uint16](value.Number(65536))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrOutOfRange))

	_, err = Uint[uint8](value.Number(-1))
	require.Error(t, err, "negative values must not wrap")
}

func TestFloat(t *testing.T) {
	f, err := Float[float64](value.Number(2.5))
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)

	small, err := Float[float32](value.Number(1.5))
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), small)

	_, err = Float[float32](value.Number(1e39))
	require.Error(t, err, "values beyond float32 range must fail, not become Inf")

	_, err = Float[float64](value.Null())
	assert.True(t, stderrors.Is(err, errors.ErrWrongKind))
}

func TestBoolAndString(t *testing.T) {
	b, err := Bool(value.True)
	require.NoError(t, err)
	assert.True(t, b)

	s, err := String(value.String("x"))
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	_, err = Bool(value.Number(1))
	assert.True(t, stderrors.Is(err, errors.ErrWrongKind))
	_, err = String(value.Null())
	assert.True(t, stderrors.Is(err, errors.ErrWrongKind))
}

func TestSliceOf(t *testing.T) {
	got, err := SliceOf(value.Array(value.Number(1), value.Number(2)), Int[int])
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)

	_, err = SliceOf(value.Object(nil), Int[int])
	assert.True(t, stderrors.Is(err, errors.ErrWrongKind))

	// The first failing element aborts with its own error, untranslated.
	_, err = SliceOf(value.Array(value.Number(1), value.String("x")), Int[int])
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrWrongKind))
}

func TestMapOf(t *testing.T) {
	obj := value.Object(map[string]value.Value{
		"a": value.Number(1),
		"b": value.Number(2),
	})
	got, err := MapOf(obj, Int[int])
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, got)

	_, err = MapOf(value.Array(), Int[int])
	assert.True(t, stderrors.Is(err, errors.ErrWrongKind))
}

func TestMapOfKeyed(t *testing.T) {
	obj := value.Object(map[string]value.Value{
		"1": value.String("one"),
		"2": value.String("two"),
	})
	got, err := MapOfKeyed(obj, strconv.Atoi, String)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{1: "one", 2: "two"}, got)

	bad := value.Object(map[string]value.Value{"x": value.String("one")})
	_, err = MapOfKeyed(bad, strconv.Atoi, String)
	require.Error(t, err)
	var codecErr *errors.CodecError
	assert.True(t, stderrors.As(err, &codecErr), "foreign key errors collapse into the shared type")
}

func TestFromJSON(t *testing.T) {
	var a account
	err := FromJSON(`{"id":187,"name":"hello","tags":["x","y"],"balance":12.5}`, &a)
	require.NoError(t, err)

	assert.Equal(t, int64(187), a.ID)
	assert.Equal(t, "hello", a.Name)
	assert.Equal(t, []string{"x", "y"}, a.Tags)
	assert.Equal(t, 12.5, a.Balance)
	assert.Nil(t, a.Suspended)
}

func TestFromJSON_OptionalPresent(t *testing.T) {
	var a account
	err := FromJSON(`{"id":1,"name":"n","tags":[],"balance":0,"suspended":true}`, &a)
	require.NoError(t, err)
	require.NotNil(t, a.Suspended)
	assert.True(t, *a.Suspended)
}

func TestFromJSON_MissingFieldFails(t *testing.T) {
	var a account
	err := FromJSON(`{"id":1,"tags":[],"balance":0}`, &a)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrMissingField))
}

func TestFromJSON_ParseErrorPropagates(t *testing.T) {
	var a account
	err := FromJSON(`{"id":`, &a)
	require.Error(t, err)
	var codecErr *errors.CodecError
	require.True(t, stderrors.As(err, &codecErr))
	assert.Equal(t, errors.ErrorTypeParse, codecErr.Type)
}

func TestDecode(t *testing.T) {
	got, err := Decode("[1,2,3]", func(v value.Value) ([]int, error) {
		return SliceOf(v, Int[int])
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestFields_TakeConsumes(t *testing.T) {
	obj := value.Object(map[string]value.Value{
		"a": value.Number(1),
		"b": value.String("x"),
		"c": value.True,
	})
	fields, err := FieldsOf(obj)
	require.NoError(t, err)

	n, err := Take(fields, "a", Int[int])
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A consumed field cannot be read twice.
	_, err = Take(fields, "a", Int[int])
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrMissingField))

	assert.Equal(t, []string{"b", "c"}, fields.Remaining())

	// Consuming a copy never mutates the original tree.
	assert.Equal(t, 3, obj.Len())
}

func TestFields_PeekDoesNotConsume(t *testing.T) {
	fields := Fields{"a": value.Number(1)}

	for i := 0; i < 2; i++ {
		n, err := Peek(fields, "a", Int[int])
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}
	assert.True(t, fields.Has("a"))

	_, err := Peek(fields, "nope", Int[int])
	assert.True(t, stderrors.Is(err, errors.ErrMissingField))
}

func TestFields_TakeWithCollapsesForeignErrors(t *testing.T) {
	fields := Fields{"when": value.String("not-a-date")}

	_, err := TakeWith(fields, "when", func(v value.Value) (int, error) {
		return 0, fmt.Errorf("bad date")
	})
	require.Error(t, err)

	var codecErr *errors.CodecError
	require.True(t, stderrors.As(err, &codecErr))
	assert.Equal(t, errors.ErrorTypeConversion, codecErr.Type)
}

func TestFields_TakeOptional(t *testing.T) {
	fields := Fields{
		"present": value.Number(5),
		"nullish": value.Null(),
	}

	p, err := TakeOptional(fields, "present", Int[int])
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 5, *p)

	n, err := TakeOptional(fields, "nullish", Int[int])
	require.NoError(t, err)
	assert.Nil(t, n)

	missing, err := TakeOptional(fields, "absent", Int[int])
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Empty(t, fields.Remaining())
}

func TestFields_RemainingForUnknownFieldChecks(t *testing.T) {
	var a account
	err := FromJSON(`{"id":1,"name":"n","tags":[],"balance":0,"extra":42}`, &a)
	// Leftover checking is the caller's job; the default conversion
	// ignores unknown members.
	require.NoError(t, err)
}
