package bytevector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

func TestBytevectorConstructAndRef(t *testing.T) {
	bv, err := bytevectorPrimitive.Fn([]value.Value{value.NewInteger(1), value.NewInteger(2), value.NewInteger(3)})
	require.NoError(t, err)

	ref, err := bytevectorU8RefPrimitive.Fn([]value.Value{bv, value.NewInteger(1)})
	require.NoError(t, err)
	assert.Equal(t, value.NewInteger(2), ref)
}

func TestBytevectorLengthAndCopy(t *testing.T) {
	bv, err := makeBytevectorPrimitive.Fn([]value.Value{value.NewInteger(4), value.NewInteger(9)})
	require.NoError(t, err)

	length, err := bytevectorLengthPrimitive.Fn([]value.Value{bv})
	require.NoError(t, err)
	assert.Equal(t, value.NewInteger(4), length)

	cp, err := bytevectorCopyPrimitive.Fn([]value.Value{bv})
	require.NoError(t, err)
	cpBv, ok := cp.(value.Bytevector)
	require.True(t, ok)
	assert.Equal(t, []byte{9, 9, 9, 9}, cpBv.Bytes())
}

func TestUtf8StringRoundTrip(t *testing.T) {
	s, err := utf8ToStringPrimitive.Fn([]value.Value{value.NewBytevector([]byte("hi"))})
	require.NoError(t, err)
	str, ok := s.(value.Str)
	require.True(t, ok)
	assert.Equal(t, "hi", str.String())

	back, err := stringToUtf8Primitive.Fn([]value.Value{value.NewStr("hi")})
	require.NoError(t, err)
	bv, ok := back.(value.Bytevector)
	require.True(t, ok)
	assert.Equal(t, []byte("hi"), bv.Bytes())
}

func TestBytevectorU8SetOutOfRangeErrors(t *testing.T) {
	bv, err := makeBytevectorPrimitive.Fn([]value.Value{value.NewInteger(2)})
	require.NoError(t, err)
	_, err = bytevectorU8SetPrimitive.Fn([]value.Value{bv, value.NewInteger(5), value.NewInteger(1)})
	assert.Error(t, err)
}
